package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ecoSparkAPI/internal/types/collector"
	"ecoSparkAPI/services"
)

type CollectorHandler struct {
	collectorService *services.CollectorService
	advisorService   *services.AdvisorService
}

func NewCollectorHandler(collectorService *services.CollectorService, advisorService *services.AdvisorService) *CollectorHandler {
	return &CollectorHandler{
		collectorService: collectorService,
		advisorService:   advisorService,
	}
}

// Directory lists collectors with optional ?city= and ?verified=true
// filters, plus an AI one-liner when ?insight=true.
func (h *CollectorHandler) Directory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp := h.collectorService.Directory(q.Get("city"), q.Get("verified") == "true")

	if q.Get("insight") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()
		resp.Insight = h.advisorService.DirectoryInsight(ctx)
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *CollectorHandler) Nominate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req collector.NominateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.collectorService.Nominate(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, n)
}
