package payment

import (
	"context"
)

// Verification outcomes reported by a gateway, normalized across
// providers.
const (
	StatusSucceeded = "succeeded"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// PaymentIntent is the handle of the intent-based flow: created
// server-side first, confirmed client-side, then re-verified here by id.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// RedirectOrder is the provider-side view of a redirect-flow order,
// fetched by reference number during verification.
type RedirectOrder struct {
	RefNo             string
	ExternalReference string
	Status            string
	Amount            string
	Currency          string
	OrderDate         string
}

// IntentGateway is the card-network intent API (one round trip to create,
// one to verify by id).
type IntentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// RedirectGateway is the redirect-based processor. The client is sent to
// the provider's page and comes back with a reference number; fulfillment
// only happens after the order status is re-verified server-to-server.
type RedirectGateway interface {
	MerchantCode() string
	GetOrderStatus(ctx context.Context, refno string) (*RedirectOrder, error)
}
