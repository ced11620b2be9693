package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	models "Gamestore/models/postgres"
	redis_models "Gamestore/models/redis"
	"Gamestore/pkg/apperrors"
	"Gamestore/services/entitlement"
	"Gamestore/services/payment"
	"Gamestore/services/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PendingStore stashes redirect-flow checkouts between create and verify.
// Satisfied by services/redis.RedisClient; tests plug in a map-backed one.
type PendingStore interface {
	SavePendingCheckout(token string, pending *redis_models.PendingCheckout) error
	GetPendingCheckout(token string) (*redis_models.PendingCheckout, error)
	DeletePendingCheckout(token string) error
}

// Service converts an externally-verified payment into durable
// entitlement state: one Order with its OrderItems, library grants, and
// wishlist pruning, all inside one transaction.
type Service struct {
	DB       *gorm.DB
	Pending  PendingStore
	Intent   payment.IntentGateway
	Redirect payment.RedirectGateway
}

// IntentCheckout is what the intent-based flow hands back to the client.
type IntentCheckout struct {
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
}

// RedirectItem is one line of the client-constructed provider item list.
type RedirectItem struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// RedirectCheckout carries everything the client needs to send the user
// to the provider's hosted page, plus the opaque token it must present
// back at verification time.
type RedirectCheckout struct {
	CheckoutToken  string          `json:"checkout_token"`
	OrderReference string          `json:"order_reference"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	MerchantCode   string          `json:"merchant_code"`
	Items          []RedirectItem  `json:"items"`
	ReturnURL      string          `json:"return_url"`
	CancelURL      string          `json:"cancel_url"`
}

// resolveGames loads every requested game. An empty id set or any
// unresolvable id fails the whole request; ids are never silently
// dropped.
func (s *Service) resolveGames(gameIDs []uint) ([]models.Game, error) {
	if len(gameIDs) == 0 {
		return nil, apperrors.Validation("at least one game id is required", nil)
	}

	unique := make([]uint, 0, len(gameIDs))
	seen := make(map[uint]bool, len(gameIDs))
	for _, id := range gameIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var games []models.Game
	if err := s.DB.Where("id IN (?)", unique).Find(&games).Error; err != nil {
		return nil, apperrors.Internal("error fetching games", err)
	}
	if len(games) != len(unique) {
		return nil, apperrors.NotFound("game", fmt.Errorf("requested %d games, found %d", len(unique), len(games)))
	}
	return games, nil
}

func checkoutTotal(games []models.Game) decimal.Decimal {
	total := decimal.Zero
	for _, game := range games {
		total = total.Add(game.DiscountedPrice())
	}
	return total
}

// BeginIntentCheckout computes the discounted total and creates a payment
// intent with the provider. No Order or entitlement state is written yet.
func (s *Service) BeginIntentCheckout(ctx context.Context, userID uint, gameIDs []uint) (*IntentCheckout, error) {
	games, err := s.resolveGames(gameIDs)
	if err != nil {
		return nil, err
	}
	total := checkoutTotal(games)

	idStrings := make([]string, len(games))
	for i, game := range games {
		idStrings[i] = strconv.FormatUint(uint64(game.ID), 10)
	}

	intent, err := s.Intent.CreateIntent(ctx, pricing.Cents(total), "usd", map[string]string{
		"user_id":  strconv.FormatUint(uint64(userID), 10),
		"game_ids": strings.Join(idStrings, ","),
	})
	if err != nil {
		return nil, err
	}

	return &IntentCheckout{
		ClientSecret: intent.ClientSecret,
		Amount:       total,
	}, nil
}

// CompleteIntentCheckout re-verifies the intent by id with the provider
// and fulfills the order on success. The game ids come from the intent's
// own metadata, not from the caller.
func (s *Service) CompleteIntentCheckout(ctx context.Context, userID uint, intentID string) (uint, error) {
	if strings.TrimSpace(intentID) == "" {
		return 0, apperrors.Validation("payment_intent_id is required", nil)
	}

	intent, err := s.Intent.RetrieveIntent(ctx, intentID)
	if err != nil {
		return 0, err
	}
	if intent.Status != payment.StatusSucceeded {
		return 0, apperrors.PaymentNotCompleted("payment not completed",
			fmt.Errorf("intent %s status %q", intentID, intent.Status))
	}
	if owner := intent.Metadata["user_id"]; owner != strconv.FormatUint(uint64(userID), 10) {
		return 0, apperrors.VerificationMismatch("payment intent does not belong to this user")
	}

	gameIDs, err := parseGameIDs(intent.Metadata["game_ids"])
	if err != nil {
		return 0, apperrors.VerificationMismatch("payment intent carries no game ids")
	}

	return s.fulfill(userID, gameIDs, models.PaymentMethodIntent, intentID, map[string]string{
		"intent_id": intentID,
		"currency":  intent.Currency,
	})
}

// BeginRedirectCheckout stashes the pending checkout in the short-lived
// store under a server-issued opaque token and returns the provider order
// payload. The redirect callback will not carry game ids itself.
func (s *Service) BeginRedirectCheckout(ctx context.Context, userID uint, gameIDs []uint, returnURL, cancelURL string) (*RedirectCheckout, error) {
	games, err := s.resolveGames(gameIDs)
	if err != nil {
		return nil, err
	}
	total := checkoutTotal(games)

	orderReference := fmt.Sprintf("ORDER_%d_%d", userID, time.Now().Unix())
	token := uuid.NewString()

	resolvedIDs := make([]uint, len(games))
	items := make([]RedirectItem, len(games))
	for i, game := range games {
		resolvedIDs[i] = game.ID
		desc := game.ShortDescription
		if len(desc) > 100 {
			desc = desc[:100]
		}
		items[i] = RedirectItem{
			Name:        game.Title,
			Quantity:    1,
			Price:       game.DiscountedPrice().StringFixed(2),
			Description: desc,
		}
	}

	err = s.Pending.SavePendingCheckout(token, &redis_models.PendingCheckout{
		UserID:         userID,
		GameIDs:        resolvedIDs,
		OrderReference: orderReference,
		Total:          total.StringFixed(2),
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return nil, apperrors.Internal("error stashing pending checkout", err)
	}

	return &RedirectCheckout{
		CheckoutToken:  token,
		OrderReference: orderReference,
		Amount:         total,
		Currency:       "USD",
		MerchantCode:   s.Redirect.MerchantCode(),
		Items:          items,
		ReturnURL:      returnURL,
		CancelURL:      cancelURL,
	}, nil
}

// CompleteRedirectCheckout verifies a redirect-flow confirmation. The
// reference must match the stashed record for the token AND the provider
// must report the order as paid for the stashed amount; matching the
// client-supplied reference alone is not proof of payment. The stash is
// deleted on every terminal outcome so a stale token cannot be replayed.
func (s *Service) CompleteRedirectCheckout(ctx context.Context, userID uint, token, orderReference, refno string) (uint, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(refno) == "" {
		return 0, apperrors.Validation("checkout_token and refno are required", nil)
	}

	pending, err := s.Pending.GetPendingCheckout(token)
	if err != nil {
		return 0, apperrors.Internal("error loading pending checkout", err)
	}
	if pending == nil {
		return 0, apperrors.VerificationMismatch("unknown or expired checkout token")
	}
	if pending.UserID != userID || pending.OrderReference != orderReference {
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, apperrors.VerificationMismatch("order reference does not match this checkout")
	}

	order, err := s.Redirect.GetOrderStatus(ctx, refno)
	if err != nil {
		// Upstream unavailable is not terminal: the token stays valid so
		// the client can retry verification once the provider is back.
		if apperrors.Is(err, apperrors.CodeUpstreamUnavailable) {
			return 0, err
		}
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, err
	}
	if !payment.OrderPaid(order.Status) {
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, apperrors.PaymentNotCompleted("payment not completed",
			fmt.Errorf("provider order %s status %q", refno, order.Status))
	}

	// A paid order alone proves nothing: the refno must belong to THIS
	// checkout. The provider-side amount has to equal the stashed total,
	// and when the provider echoes back an external reference it has to
	// be the one we issued.
	if order.ExternalReference != "" && order.ExternalReference != pending.OrderReference {
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, apperrors.VerificationMismatch("provider order was placed for a different checkout")
	}
	stashedTotal, err := decimal.NewFromString(pending.Total)
	if err != nil {
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, apperrors.Internal("corrupt pending checkout total", err)
	}
	providerAmount, err := decimal.NewFromString(order.Amount)
	if err != nil || !providerAmount.Equal(stashedTotal) {
		_ = s.Pending.DeletePendingCheckout(token)
		return 0, apperrors.VerificationMismatch("provider order amount does not match this checkout")
	}

	orderID, err := s.fulfill(userID, pending.GameIDs, models.PaymentMethodRedirect, refno, map[string]string{
		"order_reference": pending.OrderReference,
		"refno":           refno,
		"currency":        order.Currency,
	})
	if err != nil {
		return 0, err
	}

	_ = s.Pending.DeletePendingCheckout(token)
	return orderID, nil
}

// fulfill runs the whole fulfillment sequence in one transaction: Order
// insert, OrderItem inserts, idempotent library grants and wishlist
// deletes. Any failure mid-sequence rolls everything back, so no partial
// Order ever survives. The total is recomputed here, at verification
// time, not reused from beginCheckout.
func (s *Service) fulfill(userID uint, gameIDs []uint, method, providerPaymentID string, meta map[string]string) (uint, error) {
	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var games []models.Game
		if err := tx.Where("id IN (?)", gameIDs).Find(&games).Error; err != nil {
			return apperrors.Internal("error fetching games", err)
		}
		// The payment covered every game. Fulfilling a subset would grant
		// less than was charged, so a partial resolve fails like an
		// unresolvable id at checkout time does.
		if len(games) == 0 || len(games) != len(gameIDs) {
			return apperrors.NotFound("game",
				fmt.Errorf("order references %d games, resolved %d", len(gameIDs), len(games)))
		}

		total := checkoutTotal(games)
		now := time.Now()
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return apperrors.Internal("error encoding provider metadata", err)
		}

		order := models.Order{
			UserID:            userID,
			TotalAmount:       total,
			Status:            models.OrderStatusCompleted,
			PaymentMethod:     method,
			ProviderPaymentID: providerPaymentID,
			ProviderMeta:      metaJSON,
			CompletedAt:       &now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperrors.Internal("error creating order", err)
		}

		for _, game := range games {
			item := models.OrderItem{
				OrderID:         order.ID,
				GameID:          game.ID,
				Price:           game.Price,
				DiscountApplied: pricing.DiscountAmount(game.Price, game.DiscountPercentage),
			}
			if err := tx.Create(&item).Error; err != nil {
				return apperrors.Internal("error creating order item", err)
			}

			// Idempotent grant: pre-existing ownership is skipped, not an
			// error.
			if _, err := entitlement.Grant(tx, userID, game.ID, now); err != nil {
				return err
			}

			// Fulfilled pairs are pruned from the wishlist; absence is fine.
			if err := entitlement.RevokeWishlist(tx, userID, game.ID); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func parseGameIDs(csv string) ([]uint, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, fmt.Errorf("empty game id list")
	}
	parts := strings.Split(csv, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
