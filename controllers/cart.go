package controllers

import (
	"net/http"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The cart is a session-scoped set of pending game ids, not a persisted
// entity. It only feeds the checkout request the client eventually makes.
const cartSessionKey = "cart"

func sessionCart(session sessions.Session) []uint {
	raw := session.Get(cartSessionKey)
	if ids, ok := raw.([]uint); ok {
		return ids
	}
	return []uint{}
}

type cartAddRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

// @Summary Add a game to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,cart=[]integer}
// @Failure 404 {object} object{error=string}
// @Router /auth/cart/add [post]
// @Security ApiKeyAuth
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid cart payload", err))
			return
		}

		if _, err := utils.CheckGameExists(db, req.GameID); err != nil {
			respondError(c, err)
			return
		}

		session := sessions.Default(c)
		cart := sessionCart(session)
		for _, id := range cart {
			if id == req.GameID {
				c.JSON(http.StatusOK, gin.H{"message": "Already in cart", "cart": cart})
				return
			}
		}

		cart = append(cart, req.GameID)
		session.Set(cartSessionKey, cart)
		if err := session.Save(); err != nil {
			respondError(c, apperrors.Internal("error saving session", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "cart": cart})
	}
}

// @Summary Get cart contents
// @Description Resolves the session's game ids to catalog records
// @Tags cart
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object
// @Router /auth/cart [get]
// @Security ApiKeyAuth
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		cart := sessionCart(session)

		games := []models.Game{}
		if len(cart) > 0 {
			if err := db.Where("id IN (?)", cart).Find(&games).Error; err != nil {
				respondError(c, apperrors.Internal("error fetching cart games", err))
				return
			}
		}

		c.JSON(http.StatusOK, gamesResponse(games))
	}
}

// @Summary Clear the cart
// @Tags cart
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Router /auth/cart/clear [delete]
// @Security ApiKeyAuth
func ClearCart(c *gin.Context) {
	session := sessions.Default(c)
	session.Set(cartSessionKey, []uint{})
	if err := session.Save(); err != nil {
		respondError(c, apperrors.Internal("error saving session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
