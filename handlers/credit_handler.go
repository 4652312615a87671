package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecoSparkAPI/internal/types/credit"
	"ecoSparkAPI/internal/types/device"
	"ecoSparkAPI/middleware"
	"ecoSparkAPI/services"
)

type CreditHandler struct {
	creditService *services.CreditService
}

func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// Estimate resolves a device model to points. Authenticated callers get
// the points credited; anonymous callers only see the number.
func (h *CreditHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req credit.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.DeviceModel) == "" {
		respondWithError(w, http.StatusBadRequest, "device_model is required")
		return
	}

	clerkID, _ := middleware.GetClerkID(ctx)

	result, err := h.creditService.Estimate(ctx, clerkID, req.DeviceModel)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			respondWithError(w, http.StatusNotFound, "Device model not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "could not estimate credits")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	balance, err := h.creditService.Balance(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not get balance")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"points": balance})
}

func (h *CreditHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req device.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ModelName) == "" || req.MetalValue <= 0 {
		respondWithError(w, http.StatusBadRequest, "model_name and a positive metal_value are required")
		return
	}

	d, err := h.creditService.CreateDevice(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, d)
}
