package payment

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"Gamestore/pkg/apperrors"
)

const twoCheckoutBaseURL = "https://api.2checkout.com/rest/6.0"

// Order statuses the redirect-based provider reports as paid.
const (
	twoCheckoutStatusComplete     = "COMPLETE"
	twoCheckoutStatusAuthReceived = "AUTHRECEIVED"
)

// TwoCheckoutClient is the redirect-based processor adapter. Checkout
// itself happens on the provider's hosted page; this client only fetches
// order state back by reference number.
type TwoCheckoutClient struct {
	merchantCode string
	secretKey    string
	baseURL      string
	client       *http.Client
}

func NewTwoCheckoutClient(merchantCode, secretKey string) *TwoCheckoutClient {
	return &TwoCheckoutClient{
		merchantCode: merchantCode,
		secretKey:    secretKey,
		baseURL:      twoCheckoutBaseURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTwoCheckoutClientWithBaseURL points the client at a different API
// host. Used by tests to swap in an httptest server.
func NewTwoCheckoutClientWithBaseURL(merchantCode, secretKey, baseURL string) *TwoCheckoutClient {
	tc := NewTwoCheckoutClient(merchantCode, secretKey)
	tc.baseURL = baseURL
	return tc
}

func (tc *TwoCheckoutClient) MerchantCode() string {
	return tc.merchantCode
}

// authHeader builds the X-Avangate-Authentication value: the merchant
// code and request date, authenticated with an HMAC-MD5 over
// len(code)+code+len(date)+date keyed by the secret.
func (tc *TwoCheckoutClient) authHeader(now time.Time) string {
	date := now.UTC().Format("2006-01-02 15:04:05")
	payload := fmt.Sprintf("%d%s%d%s", len(tc.merchantCode), tc.merchantCode, len(date), date)
	mac := hmac.New(md5.New, []byte(tc.secretKey))
	mac.Write([]byte(payload))
	hash := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf(`code="%s" date="%s" hash="%s"`, tc.merchantCode, date, hash)
}

type twoCheckoutOrderResponse struct {
	RefNo             string `json:"RefNo"`
	ExternalReference string `json:"ExternalReference"`
	Status            string `json:"Status"`
	GrossPrice        string `json:"GrossPrice"`
	Currency          string `json:"Currency"`
	OrderDate         string `json:"OrderDate"`
}

// GetOrderStatus fetches a provider order by reference number. This is
// the server-to-server check backing redirect-flow verification; the
// client-supplied reference alone is never trusted.
func (tc *TwoCheckoutClient) GetOrderStatus(ctx context.Context, refno string) (*RedirectOrder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/orders/%s/", tc.baseURL, url.PathEscape(refno)), nil)
	if err != nil {
		return nil, apperrors.Internal("failed to build order status request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Avangate-Authentication", tc.authHeader(time.Now()))

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("failed to read provider response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("provider order", fmt.Errorf("refno %s", refno))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.UpstreamUnavailable("could not fetch order details",
			fmt.Errorf("provider status %d: %s", resp.StatusCode, string(body)))
	}

	var order twoCheckoutOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, apperrors.UpstreamUnavailable("failed to parse provider response", err)
	}

	return &RedirectOrder{
		RefNo:             order.RefNo,
		ExternalReference: order.ExternalReference,
		Status:            order.Status,
		Amount:            order.GrossPrice,
		Currency:          order.Currency,
		OrderDate:         order.OrderDate,
	}, nil
}

// OrderPaid reports whether a provider-side status means the money is
// actually captured or authorized.
func OrderPaid(status string) bool {
	return status == twoCheckoutStatusComplete || status == twoCheckoutStatusAuthReceived
}
