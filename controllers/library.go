package controllers

import (
	"net/http"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/services/entitlement"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List the user's game library
// @Tags library
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object
// @Router /auth/library [get]
// @Security ApiKeyAuth
func ListLibrary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := entitlement.ListLibrary(db, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// @Summary Recently played games
// @Description The five most recently played library entries
// @Tags library
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object
// @Router /auth/library/recent [get]
// @Security ApiKeyAuth
func RecentlyPlayed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries []models.GameLibrary
		err := db.Preload("Game").
			Where("user_id = ? AND last_played IS NOT NULL", currentUserID(c)).
			Order("last_played DESC").Limit(5).Find(&entries).Error
		if err != nil {
			respondError(c, apperrors.Internal("error fetching recent games", err))
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
