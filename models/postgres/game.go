package postgres

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"Gamestore/services/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/*
 * 'Game' is the main catalog record of the store. It is referenced by
 * GameLibrary, Wishlist, Review, OrderItem and Achievement.
 */
type Game struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Title              string          `gorm:"size:200;not null" json:"title"`
	Slug               string          `gorm:"size:220;uniqueIndex" json:"slug"`
	Description        string          `gorm:"type:text" json:"description"`
	ShortDescription   string          `gorm:"size:500" json:"short_description"`
	Price              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DiscountPercentage int             `gorm:"default:0" json:"discount_percentage"`
	ImageURL           string          `gorm:"size:500" json:"image_url"`
	ReleaseDate        time.Time       `json:"release_date"`
	Developer          string          `gorm:"size:200" json:"developer"`
	Publisher          string          `gorm:"size:200" json:"publisher"`
	CreatedAt          time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	Genres []*Genre `gorm:"many2many:game_genres;" json:"genres,omitempty"`
	Tags   []*Tag   `gorm:"many2many:game_tags;" json:"tags,omitempty"`
}

// DiscountedPrice is computed on read and never stored, so historical
// order rows keep the snapshot they were written with.
func (g *Game) DiscountedPrice() decimal.Decimal {
	return pricing.Discounted(g.Price, g.DiscountPercentage)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe base slug from a title:
// lowercase, non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "game"
	}
	return s
}

// BeforeCreate assigns a unique slug inside the creating transaction.
// On collision the candidate gets a numeric suffix: "-1", "-2", ...
// Probing inside the same tx as the insert keeps two concurrent creates
// with the same title from both claiming the same free slug; the unique
// index on slug backs this up.
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.Slug != "" {
		return nil
	}
	base := Slugify(g.Title)
	candidate := base
	for suffix := 1; ; suffix++ {
		var existing Game
		err := tx.Where("slug = ?", candidate).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			g.Slug = candidate
			return nil
		}
		if err != nil {
			return err
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
