package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"Gamestore/middleware"
	"Gamestore/models/postgres"
	redis_models "Gamestore/models/redis"
	"Gamestore/routes"
	"Gamestore/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeIntentGateway struct {
	created        *payment.PaymentIntent
	retrieveStatus string
}

func (f *fakeIntentGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.PaymentIntent, error) {
	f.created = &payment.PaymentIntent{
		ID:           "pi_api_test",
		ClientSecret: "pi_api_test_secret",
		Status:       "requires_payment_method",
		AmountCents:  amountCents,
		Currency:     currency,
		Metadata:     metadata,
	}
	return f.created, nil
}

func (f *fakeIntentGateway) RetrieveIntent(ctx context.Context, id string) (*payment.PaymentIntent, error) {
	intent := *f.created
	intent.Status = f.retrieveStatus
	return &intent, nil
}

type fakeRedirectGateway struct {
	orderStatus string
	orderAmount string
}

func (f *fakeRedirectGateway) MerchantCode() string { return "MERCH_TEST" }

func (f *fakeRedirectGateway) GetOrderStatus(ctx context.Context, refno string) (*payment.RedirectOrder, error) {
	return &payment.RedirectOrder{
		RefNo:    refno,
		Status:   f.orderStatus,
		Amount:   f.orderAmount,
		Currency: "USD",
	}, nil
}

type memPendingStore struct {
	entries map[string]*redis_models.PendingCheckout
}

func (m *memPendingStore) SavePendingCheckout(token string, pending *redis_models.PendingCheckout) error {
	m.entries[token] = pending
	return nil
}

func (m *memPendingStore) GetPendingCheckout(token string) (*redis_models.PendingCheckout, error) {
	return m.entries[token], nil
}

func (m *memPendingStore) DeletePendingCheckout(token string) error {
	delete(m.entries, token)
	return nil
}

// testServer bundles the router with its fakes and a cookie jar so the
// session cart survives across requests.
type testServer struct {
	t        *testing.T
	router   *gin.Engine
	db       *gorm.DB
	intent   *fakeIntentGateway
	redirect *fakeRedirectGateway
	cookies  []*http.Cookie
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_KEY", "test-session-key")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		postgres.User{}, postgres.UserProfile{},
		postgres.Game{}, postgres.Genre{}, postgres.Tag{},
		postgres.GameLibrary{}, postgres.Wishlist{},
		postgres.Review{}, postgres.Order{}, postgres.OrderItem{},
		postgres.Achievement{}, postgres.UserAchievement{}))

	intent := &fakeIntentGateway{retrieveStatus: payment.StatusSucceeded}
	redirect := &fakeRedirectGateway{orderStatus: "COMPLETE", orderAmount: "10.00"}
	pending := &memPendingStore{entries: map[string]*redis_models.PendingCheckout{}}

	router := gin.New()
	middleware.SetUpMiddleware(router)
	routes.SetupRoutes(router, db, pending, intent, redirect)

	return &testServer{t: t, router: router, db: db, intent: intent, redirect: redirect}
}

func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	for _, cookie := range ts.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		ts.cookies = set
	}
	return w
}

func (ts *testServer) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (ts *testServer) signUp(username string) {
	w := ts.do(http.MethodPost, "/signup", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	ts.token = ts.decode(w)["token"].(string)
}

func (ts *testServer) seedGame(title, price string, discount int) postgres.Game {
	p, err := decimal.NewFromString(price)
	require.NoError(ts.t, err)
	game := postgres.Game{Title: title, Price: p, DiscountPercentage: discount, ReleaseDate: time.Now()}
	require.NoError(ts.t, ts.db.Create(&game).Error)
	return game
}

func TestSignUpLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("alice")

	w := ts.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := ts.decode(w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	// Profile is created lazily on first access
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, float64(1), profile["level"])

	// Fresh login with the same credentials
	w = ts.do(http.MethodPost, "/login", gin.H{"username": "alice", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, ts.decode(w)["token"])

	// Wrong password is a 401
	w = ts.do(http.MethodPost, "/login", gin.H{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateSignUpConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("alice")

	w := ts.do(http.MethodPost, "/signup", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/auth/library", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ts.token = "not-a-jwt"
	w = ts.do(http.MethodGet, "/auth/library", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogReads(t *testing.T) {
	ts := newTestServer(t)
	game := ts.seedGame("Alpha Station", "10.00", 0)
	ts.seedGame("Beta Protocol", "20.00", 50)

	w := ts.do(http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	// Slug lookup and numeric id lookup both resolve
	w = ts.do(http.MethodGet, "/games/alpha-station", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/games/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ts := newTestServer(t)
	ts.seedGame("Alpha Station", "10.00", 0)
	ts.seedGame("Beta Protocol", "20.00", 50)

	for _, q := range []string{"alpha", "ALPHA", "aLpHa StAtIoN"} {
		w := ts.do(http.MethodGet, "/games/search?q="+url.QueryEscape(q), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var results []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 1, "query %q", q)
		assert.Equal(t, "Alpha Station", results[0]["title"])
	}

	w := ts.do(http.MethodGet, "/games/search?q=zebra", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results, 0)
}

func TestSessionCart(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("alice")
	game := ts.seedGame("Alpha Station", "10.00", 0)

	w := ts.do(http.MethodPost, "/auth/cart/add", gin.H{"game_id": game.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unknown game is rejected, cart untouched
	w = ts.do(http.MethodPost, "/auth/cart/add", gin.H{"game_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/auth/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, "Alpha Station", cart[0]["title"])

	w = ts.do(http.MethodDelete, "/auth/cart/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodGet, "/auth/cart", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Len(t, cart, 0)
}

func TestIntentCheckoutEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("buyer")
	gameA := ts.seedGame("Alpha Station", "10.00", 0)
	gameB := ts.seedGame("Beta Protocol", "20.00", 50)

	// The discounted one is wishlisted; fulfillment must prune it
	w := ts.do(http.MethodPost, "/auth/wishlist", gin.H{"game_id": gameB.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/auth/payment/create-intent", gin.H{
		"game_ids": []uint{gameA.ID, gameB.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := ts.decode(w)
	assert.Equal(t, "pi_api_test_secret", body["client_secret"])
	assert.Equal(t, "20", body["amount"])

	w = ts.do(http.MethodPost, "/auth/payment/confirm", gin.H{
		"payment_intent_id": "pi_api_test",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Both games now in the library
	w = ts.do(http.MethodGet, "/auth/library", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var library []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &library))
	assert.Len(t, library, 2)

	// Wishlist pruned
	w = ts.do(http.MethodGet, "/auth/wishlist", nil)
	var wishlist []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wishlist))
	assert.Len(t, wishlist, 0)

	// Order history shows the completed order with per-item snapshots
	w = ts.do(http.MethodGet, "/auth/payment/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "20", orders[0]["total_amount"])
	items := orders[0]["items"].([]interface{})
	assert.Len(t, items, 2)
}

func TestIntentCheckoutRejectsUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("buyer")
	game := ts.seedGame("Alpha Station", "10.00", 0)

	w := ts.do(http.MethodPost, "/auth/payment/create-intent", gin.H{
		"game_ids": []uint{game.ID, 9999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirectCheckoutEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("buyer")
	game := ts.seedGame("Alpha Station", "10.00", 0)

	w := ts.do(http.MethodPost, "/auth/payment/alt/create", gin.H{
		"game_ids": []uint{game.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := ts.decode(w)
	token := body["checkout_token"].(string)
	reference := body["order_reference"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "MERCH_TEST", body["merchant_code"])

	w = ts.do(http.MethodPost, "/auth/payment/alt/verify", gin.H{
		"checkout_token":  token,
		"order_reference": reference,
		"refno":           "REF123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/auth/library", nil)
	var library []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &library))
	assert.Len(t, library, 1)

	// A forged reference for a fresh checkout is rejected
	w = ts.do(http.MethodPost, "/auth/payment/alt/create", gin.H{"game_ids": []uint{game.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	token = ts.decode(w)["checkout_token"].(string)
	w = ts.do(http.MethodPost, "/auth/payment/alt/verify", gin.H{
		"checkout_token":  token,
		"order_reference": "ORDER_FORGED_1",
		"refno":           "REF123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWishlistOwnedGameConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("buyer")
	game := ts.seedGame("Alpha Station", "10.00", 0)

	var user postgres.User
	require.NoError(t, ts.db.Where("username = ?", "buyer").First(&user).Error)
	now := time.Now()
	require.NoError(t, ts.db.Create(&postgres.GameLibrary{
		UserID: user.ID, GameID: game.ID, PurchaseDate: now,
	}).Error)

	w := ts.do(http.MethodPost, "/auth/wishlist", gin.H{"game_id": game.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("critic")
	game := ts.seedGame("Alpha Station", "10.00", 0)

	w := ts.do(http.MethodPost, "/auth/reviews", gin.H{
		"game_id":     game.ID,
		"rating":      postgres.RatingPositive,
		"review_text": "Tight controls, good pacing.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// One review per user per game
	w = ts.do(http.MethodPost, "/auth/reviews", gin.H{
		"game_id": game.ID,
		"rating":  postgres.RatingNegative,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodGet, fmt.Sprintf("/reviews?game_id=%d", game.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, postgres.RatingPositive, reviews[0]["rating"])
}

func TestAdminGate(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp("regular")

	payload := gin.H{"title": "New Game", "price": "15.00"}
	w := ts.do(http.MethodPost, "/auth/games", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, ts.db.Model(&postgres.User{}).
		Where("username = ?", "regular").
		Update("is_admin", true).Error)

	w = ts.do(http.MethodPost, "/auth/games", payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The new game is publicly visible under its generated slug
	w = ts.do(http.MethodGet, "/games/new-game", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
