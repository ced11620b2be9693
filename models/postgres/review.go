package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review ratings are a binary recommendation, not a star scale.
const (
	RatingPositive = "positive"
	RatingNegative = "negative"
)

/*
 * 'Review' is one user's review of one game, unique per (user, game) and
 * edited in place rather than versioned.
 */
type Review struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_review_user_game" json:"user_id"`
	GameID       uint            `gorm:"not null;uniqueIndex:idx_review_user_game" json:"game_id"`
	Rating       string          `gorm:"size:10;not null" json:"rating"`
	ReviewText   string          `gorm:"type:text" json:"review_text"`
	HoursPlayed  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"hours_played"`
	HelpfulCount int             `gorm:"default:0" json:"helpful_count"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}
