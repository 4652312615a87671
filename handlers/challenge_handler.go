package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ecoSparkAPI/internal/session"
	"ecoSparkAPI/internal/types/challenge"
	"ecoSparkAPI/middleware"
	"ecoSparkAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	sessions         *session.Store
}

func NewChallengeHandler(challengeService *services.ChallengeService, sessions *session.Store) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		sessions:         sessions,
	}
}

// GetBoard serves the challenge board for both identity modes: durable
// completions for an authenticated user, session completions otherwise.
func (h *ChallengeHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, _ := middleware.GetClerkID(ctx)

	var sessionKeys []string
	if clerkID == "" {
		sessionKeys = h.sessions.Completions(r)
	}

	board, err := h.challengeService.GetBoard(ctx, clerkID, sessionKeys)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not load challenge board")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

// CompleteChallenge records a completion. Authenticated users get a
// durable row; anonymous visitors get the key added to their session.
func (h *ChallengeHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := challenge.ParseKey(req.ChallengeID); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	clerkID, ok := middleware.GetClerkID(ctx)
	if ok {
		created, err := h.challengeService.RecordCompletion(ctx, clerkID, req.ChallengeID)
		if err != nil {
			if errors.Is(err, services.ErrUnknownChallenge) {
				respondWithError(w, http.StatusBadRequest, "Unknown challenge")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "could not record completion")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"completed": true, "created": created})
		return
	}

	if err := h.sessions.AddCompletion(w, r, req.ChallengeID); err != nil {
		log.Printf("ChallengeHandler: failed to save session completion: %v", err)
		respondWithError(w, http.StatusInternalServerError, "could not save completion")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"completed": true, "created": true})
}

// IsCompleted answers the dual-mode completion lookup for one challenge.
func (h *ChallengeHandler) IsCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	clerkID, ok := middleware.GetClerkID(ctx)
	if ok {
		completed, err := h.challengeService.IsCompleted(ctx, clerkID, id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "could not check completion")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"completed": completed})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"completed": h.sessions.Contains(r, challenge.Key(id)),
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
