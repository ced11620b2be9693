package controllers

import (
	"net/http"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/services/checkout"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentController wires the checkout orchestrator into the HTTP
// surface for both provider flows.
type PaymentController struct {
	DB       *gorm.DB
	Checkout *checkout.Service
}

type createIntentRequest struct {
	GameIDs []uint `json:"game_ids" binding:"required"`
}

// @Summary Create a payment intent
// @Description Computes the discounted total and opens an intent with the card provider
// @Tags payment
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{client_secret=string,amount=number}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /auth/payment/create-intent [post]
// @Security ApiKeyAuth
func (pc *PaymentController) CreateIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid checkout payload", err))
		return
	}

	result, err := pc.Checkout.BeginIntentCheckout(c.Request.Context(), currentUserID(c), req.GameIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// @Summary Confirm an intent payment
// @Description Re-verifies the intent with the provider and fulfills the order
// @Tags payment
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,order_id=integer}
// @Failure 402 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /auth/payment/confirm [post]
// @Security ApiKeyAuth
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid confirmation payload", err))
		return
	}

	orderID, err := pc.Checkout.CompleteIntentCheckout(c.Request.Context(), currentUserID(c), req.PaymentIntentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment successful", "order_id": orderID})
}

// @Summary Order history
// @Tags payment
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object
// @Router /auth/payment/orders [get]
// @Security ApiKeyAuth
func (pc *PaymentController) OrderHistory(c *gin.Context) {
	var orders []models.Order
	err := pc.DB.Preload("Items").Preload("Items.Game").
		Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		respondError(c, apperrors.Internal("error fetching orders", err))
		return
	}
	c.JSON(http.StatusOK, orders)
}

type createAltOrderRequest struct {
	GameIDs   []uint `json:"game_ids" binding:"required"`
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

// @Summary Create a redirect-flow order
// @Description Stashes the pending checkout under an opaque token and returns the provider payload
// @Tags payment
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{checkout_token=string,order_reference=string,amount=number}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/payment/alt/create [post]
// @Security ApiKeyAuth
func (pc *PaymentController) CreateAltOrder(c *gin.Context) {
	var req createAltOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid checkout payload", err))
		return
	}
	if req.ReturnURL == "" {
		req.ReturnURL = "http://localhost:5173/payment/success"
	}
	if req.CancelURL == "" {
		req.CancelURL = "http://localhost:5173/payment/cancel"
	}

	result, err := pc.Checkout.BeginRedirectCheckout(c.Request.Context(), currentUserID(c),
		req.GameIDs, req.ReturnURL, req.CancelURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type verifyAltPaymentRequest struct {
	CheckoutToken  string `json:"checkout_token" binding:"required"`
	OrderReference string `json:"order_reference" binding:"required"`
	RefNo          string `json:"refno" binding:"required"`
}

// @Summary Verify a redirect-flow payment
// @Description Matches the stashed checkout and re-verifies the order with the provider before fulfilling
// @Tags payment
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,order_id=integer}
// @Failure 400 {object} object{error=string}
// @Failure 402 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /auth/payment/alt/verify [post]
// @Security ApiKeyAuth
func (pc *PaymentController) VerifyAltPayment(c *gin.Context) {
	var req verifyAltPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid verification payload", err))
		return
	}

	orderID, err := pc.Checkout.CompleteRedirectCheckout(c.Request.Context(), currentUserID(c),
		req.CheckoutToken, req.OrderReference, req.RefNo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment successful", "order_id": orderID})
}

// @Summary Redirect-flow order details
// @Description Fetches the provider-side order state by reference number
// @Tags payment
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param refno query string true "Provider reference number"
// @Success 200 {object} object{refno=string,status=string,amount=string}
// @Failure 400 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /auth/payment/alt/details [get]
// @Security ApiKeyAuth
func (pc *PaymentController) AltPaymentDetails(c *gin.Context) {
	refno := c.Query("refno")
	if refno == "" {
		respondError(c, apperrors.Validation("refno is required", nil))
		return
	}

	order, err := pc.Checkout.Redirect.GetOrderStatus(c.Request.Context(), refno)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refno":    order.RefNo,
		"status":   order.Status,
		"amount":   order.Amount,
		"currency": order.Currency,
		"created":  order.OrderDate,
	})
}
