package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func gameResponse(game *models.Game) gin.H {
	return gin.H{
		"id":                  game.ID,
		"title":               game.Title,
		"slug":                game.Slug,
		"description":         game.Description,
		"short_description":   game.ShortDescription,
		"price":               game.Price,
		"discount_percentage": game.DiscountPercentage,
		"discounted_price":    game.DiscountedPrice(),
		"image_url":           game.ImageURL,
		"release_date":        game.ReleaseDate,
		"developer":           game.Developer,
		"publisher":           game.Publisher,
		"genres":              game.Genres,
		"tags":                game.Tags,
	}
}

func gamesResponse(games []models.Game) []gin.H {
	out := make([]gin.H, len(games))
	for i := range games {
		out[i] = gameResponse(&games[i])
	}
	return out
}

// @Summary List all games
// @Tags games
// @Produce json
// @Success 200 {array} object
// @Router /games [get]
func ListGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var games []models.Game
		if err := db.Preload("Genres").Preload("Tags").Find(&games).Error; err != nil {
			respondError(c, apperrors.Internal("error fetching games", err))
			return
		}
		c.JSON(http.StatusOK, gamesResponse(games))
	}
}

// @Summary Get a single game
// @Description Looks up by slug first, numeric id as fallback
// @Tags games
// @Produce json
// @Param idOrSlug path string true "Game slug or numeric id"
// @Success 200 {object} object
// @Failure 404 {object} object{error=string}
// @Router /games/{idOrSlug} [get]
func GetGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lookup := c.Param("idOrSlug")

		var game models.Game
		err := db.Preload("Genres").Preload("Tags").
			Where("slug = ?", lookup).First(&game).Error
		if err == gorm.ErrRecordNotFound {
			if id, convErr := strconv.ParseUint(lookup, 10, 32); convErr == nil {
				err = db.Preload("Genres").Preload("Tags").
					First(&game, uint(id)).Error
			}
		}
		if err == gorm.ErrRecordNotFound {
			respondError(c, apperrors.NotFound("game", nil))
			return
		}
		if err != nil {
			respondError(c, apperrors.Internal("error fetching game", err))
			return
		}

		c.JSON(http.StatusOK, gameResponse(&game))
	}
}

// @Summary Featured games
// @Description The ten most discounted games currently on sale
// @Tags games
// @Produce json
// @Success 200 {array} object
// @Router /games/featured [get]
func FeaturedGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var games []models.Game
		err := db.Where("discount_percentage > 0").
			Order("discount_percentage DESC").Limit(10).Find(&games).Error
		if err != nil {
			respondError(c, apperrors.Internal("error fetching featured games", err))
			return
		}
		c.JSON(http.StatusOK, gamesResponse(games))
	}
}

// @Summary Search games
// @Description Case-insensitive match against title, description and tag names
// @Tags games
// @Produce json
// @Param q query string false "Search terms"
// @Success 200 {array} object
// @Router /games/search [get]
func SearchGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")

		var games []models.Game
		tx := db.Preload("Tags")
		if query != "" {
			// LOWER(...) LIKE instead of ILIKE so the match stays
			// case-insensitive on postgres and sqlite alike.
			pattern := "%" + strings.ToLower(query) + "%"
			tx = tx.Distinct("games.*").
				Joins("LEFT JOIN game_tags ON game_tags.game_id = games.id").
				Joins("LEFT JOIN tags ON tags.id = game_tags.tag_id").
				Where("LOWER(games.title) LIKE ? OR LOWER(games.description) LIKE ? OR LOWER(tags.name) LIKE ?",
					pattern, pattern, pattern)
		}
		if err := tx.Find(&games).Error; err != nil {
			respondError(c, apperrors.Internal("error searching games", err))
			return
		}
		c.JSON(http.StatusOK, gamesResponse(games))
	}
}

type gameRequest struct {
	Title              string          `json:"title" binding:"required"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"short_description"`
	Price              decimal.Decimal `json:"price" binding:"required"`
	DiscountPercentage int             `json:"discount_percentage"`
	ImageURL           string          `json:"image_url"`
	ReleaseDate        time.Time       `json:"release_date"`
	Developer          string          `json:"developer"`
	Publisher          string          `json:"publisher"`
}

func (r *gameRequest) validate() error {
	if r.Price.IsNegative() {
		return apperrors.Validation("price cannot be negative", nil)
	}
	if r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
		return apperrors.Validation("discount_percentage must be between 0 and 100", nil)
	}
	return nil
}

// @Summary Create a game
// @Description Admin only. Slug is derived from the title when omitted
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /games [post]
// @Security ApiKeyAuth
func CreateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid game payload", err))
			return
		}
		if err := req.validate(); err != nil {
			respondError(c, err)
			return
		}

		game := models.Game{
			Title:              req.Title,
			Slug:               req.Slug,
			Description:        req.Description,
			ShortDescription:   req.ShortDescription,
			Price:              req.Price,
			DiscountPercentage: req.DiscountPercentage,
			ImageURL:           req.ImageURL,
			ReleaseDate:        req.ReleaseDate,
			Developer:          req.Developer,
			Publisher:          req.Publisher,
		}

		// The slug probe in BeforeCreate has to share the insert's
		// transaction, otherwise two concurrent creates with the same
		// title can both claim the same free slug.
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&game).Error
		})
		if err != nil {
			respondError(c, apperrors.Internal("error creating game", err))
			return
		}

		c.JSON(http.StatusCreated, gameResponse(&game))
	}
}

// @Summary Update a game
// @Description Admin only
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path int true "Game id"
// @Success 200 {object} object
// @Failure 404 {object} object{error=string}
// @Router /games/{id} [patch]
// @Security ApiKeyAuth
func UpdateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, apperrors.Validation("invalid game id", err))
			return
		}

		var game models.Game
		if err := db.First(&game, uint(id)).Error; err != nil {
			respondError(c, apperrors.NotFound("game", err))
			return
		}

		var req gameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid game payload", err))
			return
		}
		if err := req.validate(); err != nil {
			respondError(c, err)
			return
		}

		game.Title = req.Title
		game.Description = req.Description
		game.ShortDescription = req.ShortDescription
		game.Price = req.Price
		game.DiscountPercentage = req.DiscountPercentage
		game.ImageURL = req.ImageURL
		game.ReleaseDate = req.ReleaseDate
		game.Developer = req.Developer
		game.Publisher = req.Publisher

		if err := db.Save(&game).Error; err != nil {
			respondError(c, apperrors.Internal("error updating game", err))
			return
		}

		c.JSON(http.StatusOK, gameResponse(&game))
	}
}

// @Summary Delete a game
// @Description Admin only
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path int true "Game id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /games/{id} [delete]
// @Security ApiKeyAuth
func DeleteGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, apperrors.Validation("invalid game id", err))
			return
		}

		result := db.Delete(&models.Game{}, uint(id))
		if result.Error != nil {
			respondError(c, apperrors.Internal("error deleting game", result.Error))
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, apperrors.NotFound("game", nil))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
	}
}
