package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Gamestore/pkg/apperrors"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// StripeClient talks to the payment-intent REST API with form-encoded
// requests authenticated by the secret key.
type StripeClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		secretKey: secretKey,
		baseURL:   stripeBaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewStripeClientWithBaseURL points the client at a different API host.
// Used by tests to swap in an httptest server.
func NewStripeClientWithBaseURL(secretKey, baseURL string) *StripeClient {
	sc := NewStripeClient(secretKey)
	sc.baseURL = baseURL
	return sc
}

type stripeIntentResponse struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent creates a payment intent for the given amount in minor
// units. Metadata travels with the intent so the provider dashboard can
// tie it back to the user and games.
func (sc *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		sc.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.Internal("failed to build payment intent request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+sc.secretKey)

	return sc.doIntentRequest(req)
}

// RetrieveIntent re-fetches an intent by id to check its status.
func (sc *StripeClient) RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		sc.baseURL+"/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, apperrors.Internal("failed to build payment intent request", err)
	}
	req.Header.Set("Authorization", "Bearer "+sc.secretKey)

	return sc.doIntentRequest(req)
}

func (sc *StripeClient) doIntentRequest(req *http.Request) (*PaymentIntent, error) {
	resp, err := sc.client.Do(req)
	if err != nil {
		// Network failures and the 10s timeout both land here.
		return nil, apperrors.UpstreamUnavailable("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("failed to read provider response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stripeErr stripeErrorResponse
		_ = json.Unmarshal(body, &stripeErr)
		return nil, apperrors.PaymentNotCompleted("payment provider rejected the request",
			fmt.Errorf("provider status %d: %s", resp.StatusCode, stripeErr.Error.Message))
	}

	var intent stripeIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, apperrors.UpstreamUnavailable("failed to parse provider response", err)
	}

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
		AmountCents:  intent.Amount,
		Currency:     intent.Currency,
		Metadata:     intent.Metadata,
	}, nil
}
