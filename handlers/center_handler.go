package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecoSparkAPI/internal/types/center"
	"ecoSparkAPI/services"
)

type CenterHandler struct {
	centerService *services.CenterService
}

func NewCenterHandler(centerService *services.CenterService) *CenterHandler {
	return &CenterHandler{centerService: centerService}
}

func (h *CenterHandler) GetCenters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	centers, err := h.centerService.GetAllCenters(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not load centers")
		return
	}
	if centers == nil {
		centers = []center.RecyclingCenter{}
	}

	respondWithJSON(w, http.StatusOK, centers)
}

func (h *CenterHandler) CreateCenter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req center.CreateCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.centerService.CreateCenter(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}

// FindNearby proxies the external places search. Query params: q (place
// name), country, lat, lng, radius_km, and optional map bounds sw_lat,
// sw_lng, ne_lat, ne_lng.
func (h *CenterHandler) FindNearby(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	q := r.URL.Query()

	params := &services.NearbyParams{
		Query:   q.Get("q"),
		Country: q.Get("country"),
	}
	params.Lat = parseFloatParam(q.Get("lat"))
	params.Lng = parseFloatParam(q.Get("lng"))
	params.SWLat = parseFloatParam(q.Get("sw_lat"))
	params.SWLng = parseFloatParam(q.Get("sw_lng"))
	params.NELat = parseFloatParam(q.Get("ne_lat"))
	params.NELng = parseFloatParam(q.Get("ne_lng"))
	if radius := parseFloatParam(q.Get("radius_km")); radius != nil {
		params.RadiusKm = *radius
	}

	if params.Query == "" && (params.Lat == nil || params.Lng == nil) {
		respondWithError(w, http.StatusBadRequest, "Provide q or lat/lng")
		return
	}

	resp, err := h.centerService.FindNearby(ctx, params)
	if err != nil {
		if errors.Is(err, services.ErrNoPlacesProvider) {
			respondWithError(w, http.StatusServiceUnavailable, "No places provider configured")
			return
		}
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
