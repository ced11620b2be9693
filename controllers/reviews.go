package controllers

import (
	"net/http"
	"strconv"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// @Summary List reviews
// @Description All reviews, or one game's when game_id is given
// @Tags reviews
// @Produce json
// @Param game_id query int false "Filter by game"
// @Success 200 {array} object
// @Router /reviews [get]
func ListReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.Order("created_at DESC")
		if raw := c.Query("game_id"); raw != "" {
			gameID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				respondError(c, apperrors.Validation("invalid game_id", err))
				return
			}
			tx = tx.Where("game_id = ?", uint(gameID))
		}

		var reviews []models.Review
		if err := tx.Find(&reviews).Error; err != nil {
			respondError(c, apperrors.Internal("error fetching reviews", err))
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

type reviewRequest struct {
	GameID      uint            `json:"game_id" binding:"required"`
	Rating      string          `json:"rating" binding:"required"`
	ReviewText  string          `json:"review_text"`
	HoursPlayed decimal.Decimal `json:"hours_played"`
}

// @Summary Create a review
// @Description One review per user per game; duplicates are a conflict
// @Tags reviews
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/reviews [post]
// @Security ApiKeyAuth
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid review payload", err))
			return
		}
		if req.Rating != models.RatingPositive && req.Rating != models.RatingNegative {
			respondError(c, apperrors.Validation("rating must be positive or negative", nil))
			return
		}

		if _, err := utils.CheckGameExists(db, req.GameID); err != nil {
			respondError(c, err)
			return
		}

		var existing models.Review
		err := db.Where("user_id = ? AND game_id = ?", userID, req.GameID).
			First(&existing).Error
		if err == nil {
			respondError(c, apperrors.Conflict("you already reviewed this game"))
			return
		}
		if err != gorm.ErrRecordNotFound {
			respondError(c, apperrors.Internal("error checking reviews", err))
			return
		}

		review := models.Review{
			UserID:      userID,
			GameID:      req.GameID,
			Rating:      req.Rating,
			ReviewText:  req.ReviewText,
			HoursPlayed: req.HoursPlayed,
		}
		if err := db.Create(&review).Error; err != nil {
			respondError(c, apperrors.Internal("error creating review", err))
			return
		}

		c.JSON(http.StatusCreated, review)
	}
}

type reviewUpdateRequest struct {
	Rating      *string          `json:"rating"`
	ReviewText  *string          `json:"review_text"`
	HoursPlayed *decimal.Decimal `json:"hours_played"`
}

// @Summary Update a review
// @Description Reviews are edited in place, not versioned
// @Tags reviews
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path int true "Review id"
// @Success 200 {object} object
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/reviews/{id} [patch]
// @Security ApiKeyAuth
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, apperrors.Validation("invalid review id", err))
			return
		}

		var review models.Review
		if err := db.First(&review, uint(id)).Error; err != nil {
			respondError(c, apperrors.NotFound("review", err))
			return
		}
		if review.UserID != userID {
			respondError(c, apperrors.Forbidden("you can only edit your own reviews", nil))
			return
		}

		var req reviewUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid review payload", err))
			return
		}
		if req.Rating != nil {
			if *req.Rating != models.RatingPositive && *req.Rating != models.RatingNegative {
				respondError(c, apperrors.Validation("rating must be positive or negative", nil))
				return
			}
			review.Rating = *req.Rating
		}
		if req.ReviewText != nil {
			review.ReviewText = *req.ReviewText
		}
		if req.HoursPlayed != nil {
			review.HoursPlayed = *req.HoursPlayed
		}

		if err := db.Save(&review).Error; err != nil {
			respondError(c, apperrors.Internal("error updating review", err))
			return
		}

		c.JSON(http.StatusOK, review)
	}
}
