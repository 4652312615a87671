package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ecoSparkAPI/internal/types/pickup"
	"ecoSparkAPI/services"
)

type PickupHandler struct {
	pickupService *services.PickupService
}

func NewPickupHandler(pickupService *services.PickupService) *PickupHandler {
	return &PickupHandler{pickupService: pickupService}
}

func (h *PickupHandler) CreatePickup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req pickup.CreatePickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.pickupService.CreatePickup(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *PickupHandler) ListPickups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	pickups, err := h.pickupService.ListPickups(ctx, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not list pickups")
		return
	}
	if pickups == nil {
		pickups = []pickup.Pickup{}
	}

	respondWithJSON(w, http.StatusOK, pickups)
}
