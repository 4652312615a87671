package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"ecoSparkAPI/internal/types/clerk"
	"ecoSparkAPI/internal/types/user"
	"ecoSparkAPI/services"
)

type WebhookHandler struct {
	userService *services.UserService
}

func NewWebhookHandler(userService *services.UserService) *WebhookHandler {
	return &WebhookHandler{userService: userService}
}

// HandleClerkWebhook processes Clerk user lifecycle events.
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if !verifyWebhookSignature(r, body) {
		log.Println("WebhookHandler: invalid webhook signature")
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerk.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	switch event.Type {
	case "user.created":
		var data clerk.UserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user data")
			return
		}

		email := ""
		if len(data.EmailAddresses) > 0 {
			email = data.EmailAddresses[0].EmailAddress
		}
		username := data.Username
		if username == "" && email != "" {
			username = strings.Split(email, "@")[0]
		}
		imageURL := data.ImageURL
		if imageURL == "" {
			imageURL = data.ProfileImageURL
		}

		if _, err := h.userService.CreateUser(ctx, &user.CreateUserRequest{
			ClerkID:   data.ID,
			Email:     email,
			Username:  username,
			FirstName: data.FirstName,
			LastName:  data.LastName,
			ImageURL:  imageURL,
		}); err != nil {
			log.Printf("WebhookHandler: failed to create user %s: %v", data.ID, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		log.Printf("WebhookHandler: created user %s", data.ID)

	case "user.deleted":
		var data clerk.UserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user data")
			return
		}

		if err := h.userService.DeleteUserByClerkID(ctx, data.ID); err != nil {
			log.Printf("WebhookHandler: failed to delete user %s: %v", data.ID, err)
		}

	default:
		log.Printf("WebhookHandler: ignoring event type %s", event.Type)
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// verifyWebhookSignature checks the svix HMAC signature Clerk sends.
// The whsec_ secret is base64; the header carries space-separated
// "v1,<base64 sig>" entries. With no secret configured (local
// development) verification is skipped.
func verifyWebhookSignature(r *http.Request, body []byte) bool {
	secret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if secret == "" {
		return true
	}

	svixID := r.Header.Get("svix-id")
	svixTimestamp := r.Header.Get("svix-timestamp")
	svixSignature := r.Header.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		log.Printf("WebhookHandler: webhook secret is not valid base64: %v", err)
		return false
	}

	signedContent := svixID + "." + svixTimestamp + "." + string(body)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signedContent))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, part := range strings.Fields(svixSignature) {
		sig := strings.TrimPrefix(part, "v1,")
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}
