package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ecoSparkAPI/internal/types/advisor"
	"ecoSparkAPI/services"
)

type AdvisorHandler struct {
	advisorService *services.AdvisorService
}

func NewAdvisorHandler(advisorService *services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

func (h *AdvisorHandler) ExplainTopic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		respondWithError(w, http.StatusBadRequest, "topic is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"topic":       req.Topic,
		"explanation": h.advisorService.ExplainTopic(ctx, req.Topic),
	})
}

func (h *AdvisorHandler) ExplainHazard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req struct {
		Component string `json:"component"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Component) == "" {
		respondWithError(w, http.StatusBadRequest, "component is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"component":   req.Component,
		"explanation": h.advisorService.ExplainHazard(ctx, req.Component),
	})
}

func (h *AdvisorHandler) DailyTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	tip, date := h.advisorService.DailyTip(ctx)
	respondWithJSON(w, http.StatusOK, map[string]string{"tip": tip, "date": date})
}

func (h *AdvisorHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	respondWithJSON(w, http.StatusOK, map[string]any{
		"questions": h.advisorService.GenerateQuiz(ctx),
	})
}

func (h *AdvisorHandler) ScoreQuiz(w http.ResponseWriter, r *http.Request) {
	var req advisor.QuizScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Questions) == 0 {
		respondWithError(w, http.StatusBadRequest, "questions are required")
		return
	}

	respondWithJSON(w, http.StatusOK, services.ScoreQuiz(&req))
}

func (h *AdvisorHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Item) == "" {
		respondWithError(w, http.StatusBadRequest, "item is required")
		return
	}

	respondWithJSON(w, http.StatusOK, h.advisorService.Decide(ctx, req.Item))
}

func (h *AdvisorHandler) ReuseAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req advisor.ReuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		respondWithError(w, http.StatusBadRequest, "model is required")
		return
	}

	respondWithJSON(w, http.StatusOK, h.advisorService.ReuseAdvice(ctx, &req))
}

func (h *AdvisorHandler) EstimateValue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req advisor.ValueEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		respondWithError(w, http.StatusBadRequest, "model is required")
		return
	}
	if req.Age < 0 {
		req.Age = 0
	}

	respondWithJSON(w, http.StatusOK, h.advisorService.EstimateValue(ctx, req.Model, req.Age))
}
