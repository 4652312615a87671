package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func signSvix(key []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "." + string(body)))
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	key := []byte("testsecretkey")
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_"+base64.StdEncoding.EncodeToString(key))
	body := []byte(`{"type":"user.created"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", nil)
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", signSvix(key, "msg_1", "1700000000", body))
	require.True(t, verifyWebhookSignature(req, body))

	// A second signature entry in the header still verifies.
	req.Header.Set("svix-signature", "v1,AAAA "+signSvix(key, "msg_1", "1700000000", body))
	require.True(t, verifyWebhookSignature(req, body))

	// Tampered body fails.
	require.False(t, verifyWebhookSignature(req, []byte(`{"type":"user.deleted"}`)))

	// Wrong signature fails.
	req.Header.Set("svix-signature", "v1,ZGVhZGJlZWY=")
	require.False(t, verifyWebhookSignature(req, body))

	// Missing headers fail.
	bare := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", nil)
	require.False(t, verifyWebhookSignature(bare, body))
}

func TestVerifyWebhookSignature_BadSecretEncoding(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_not!!base64")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", nil)
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", "v1,AAAA")
	require.False(t, verifyWebhookSignature(req, []byte("{}")))
}

func TestVerifyWebhookSignature_SkippedWithoutSecret(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", nil)
	require.True(t, verifyWebhookSignature(req, []byte("{}")))
}
