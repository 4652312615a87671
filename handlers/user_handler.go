package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ecoSparkAPI/internal/session"
	"ecoSparkAPI/internal/types/user"
	"ecoSparkAPI/middleware"
	"ecoSparkAPI/services"
)

type UserHandler struct {
	userService      *services.UserService
	challengeService *services.ChallengeService
	sessions         *session.Store
}

func NewUserHandler(userService *services.UserService, challengeService *services.ChallengeService, sessions *session.Store) *UserHandler {
	return &UserHandler{
		userService:      userService,
		challengeService: challengeService,
		sessions:         sessions,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

// SyncSession is called by the frontend right after login. It makes sure
// the user row exists and folds the session's anonymous completions into
// durable storage. The response is 200 even when individual keys fail:
// those keys stay in the session and the next sync retries them.
func (h *UserHandler) SyncSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.userService.EnsureUser(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not sync user")
		return
	}

	resp := &user.SyncResponse{User: u}

	sessionKeys := h.sessions.Completions(r)
	if len(sessionKeys) > 0 {
		result, err := h.challengeService.MergeSessionCompletions(ctx, clerkID, sessionKeys)
		if err != nil {
			// Leave the session untouched; the whole set retries next sync.
			log.Printf("UserHandler: session merge failed for %s: %v", clerkID, err)
			respondWithJSON(w, http.StatusOK, resp)
			return
		}

		resp.MergedCount = result.MergedCount
		middleware.RecordSessionMerge(result.MergedCount, len(result.Retained), len(result.Dropped))

		if err := h.sessions.SetCompletions(w, r, result.Retained); err != nil {
			log.Printf("UserHandler: failed to rewrite session after merge: %v", err)
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.userService.DeleteUserByClerkID(ctx, clerkID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "could not delete account")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
