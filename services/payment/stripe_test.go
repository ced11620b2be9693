package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gamestore/pkg/apperrors"
	"Gamestore/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeCreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "42", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "pi_123",
			"client_secret": "pi_123_secret",
			"status": "requires_payment_method",
			"amount": 2000,
			"currency": "usd",
			"metadata": {"user_id": "42", "game_ids": "1,2"}
		}`))
	}))
	defer server.Close()

	client := payment.NewStripeClientWithBaseURL("sk_test_abc", server.URL)
	intent, err := client.CreateIntent(context.Background(), 2000, "usd",
		map[string]string{"user_id": "42", "game_ids": "1,2"})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, int64(2000), intent.AmountCents)
	assert.Equal(t, "1,2", intent.Metadata["game_ids"])
}

func TestStripeRetrieveIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "pi_123", "status": "succeeded", "amount": 2000, "currency": "usd"}`))
	}))
	defer server.Close()

	client := payment.NewStripeClientWithBaseURL("sk_test_abc", server.URL)
	intent, err := client.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSucceeded, intent.Status)
}

func TestStripeRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "Your card was declined."}}`))
	}))
	defer server.Close()

	client := payment.NewStripeClientWithBaseURL("sk_test_abc", server.URL)
	_, err := client.CreateIntent(context.Background(), 500, "usd", nil)
	assert.True(t, apperrors.Is(err, apperrors.CodePaymentNotCompleted))
}

func TestStripeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := payment.NewStripeClientWithBaseURL("sk_test_abc", server.URL)
	_, err := client.RetrieveIntent(context.Background(), "pi_123")
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamUnavailable))
}
