package controllers

import (
	"net/http"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/services/entitlement"
	"Gamestore/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List the user's wishlist
// @Tags wishlist
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object
// @Router /auth/wishlist [get]
// @Security ApiKeyAuth
func ListWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := entitlement.ListWishlist(db, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

type wishlistRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

// @Summary Add a game to the wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/wishlist [post]
// @Security ApiKeyAuth
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		var req wishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid wishlist payload", err))
			return
		}

		if _, err := utils.CheckGameExists(db, req.GameID); err != nil {
			respondError(c, err)
			return
		}

		owned, err := utils.UserOwnsGame(db, userID, req.GameID)
		if err != nil {
			respondError(c, err)
			return
		}
		if owned {
			respondError(c, apperrors.Conflict("game is already in your library"))
			return
		}

		var existing models.Wishlist
		err = db.Where("user_id = ? AND game_id = ?", userID, req.GameID).
			First(&existing).Error
		if err == nil {
			respondError(c, apperrors.Conflict("game already wishlisted"))
			return
		}
		if err != gorm.ErrRecordNotFound {
			respondError(c, apperrors.Internal("error checking wishlist", err))
			return
		}

		entry := models.Wishlist{UserID: userID, GameID: req.GameID}
		if err := db.Create(&entry).Error; err != nil {
			respondError(c, apperrors.Internal("error adding to wishlist", err))
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// @Summary Remove a game from the wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/wishlist/remove_game [delete]
// @Security ApiKeyAuth
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		var req wishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid wishlist payload", err))
			return
		}

		var existing models.Wishlist
		err := db.Where("user_id = ? AND game_id = ?", userID, req.GameID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			respondError(c, apperrors.NotFound("wishlist entry", nil))
			return
		}
		if err != nil {
			respondError(c, apperrors.Internal("error checking wishlist", err))
			return
		}

		if err := entitlement.RevokeWishlist(db, userID, req.GameID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}
