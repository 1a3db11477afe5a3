package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookReceive(t *testing.T) {
	router := NewRouter(&stubService{})

	events := []string{
		"subscription.created",
		"subscription.renewed",
		"subscription.cancelled",
		"payment.failed",
		"payment.succeeded",
		"some.future.event",
	}

	for _, event := range events {
		t.Run(event, func(t *testing.T) {
			w, body := doJSON(t, router, http.MethodPost, "/api/webhooks/subscription", gin.H{
				"event":          event,
				"subscriptionId": "sub_abc",
				"userAddress":    apiTestAddress,
				"planId":         "basic",
				"amount":         100,
			})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "Webhook processed successfully", body["message"])
			assert.Equal(t, event, body["event"])
			assert.Equal(t, "sub_abc", body["subscriptionId"])
		})
	}
}

func TestWebhookReceiveMalformed(t *testing.T) {
	router := NewRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/subscription",
		bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Webhook processing failed", body["error"])
}

func TestWebhookVerifyChallenge(t *testing.T) {
	router := NewRouter(&stubService{})

	w, body := doJSON(t, router, http.MethodGet, "/api/webhooks/subscription?challenge=abc123", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc123", body["challenge"])
	assert.Equal(t, "Webhook endpoint is active", body["message"])
}

func TestWebhookVerifyLiveness(t *testing.T) {
	router := NewRouter(&stubService{})

	w, body := doJSON(t, router, http.MethodGet, "/api/webhooks/subscription", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Webhook endpoint is ready", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}
