package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
 * 'GameLibrary' is an entitlement: a durable record that a user owns a
 * game. Rows are created only by a completed checkout. The (user, game)
 * pair is unique.
 */
type GameLibrary struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_library_user_game" json:"user_id"`
	GameID       uint            `gorm:"not null;uniqueIndex:idx_library_user_game" json:"game_id"`
	PurchaseDate time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"purchase_date"`
	HoursPlayed  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"hours_played"`
	LastPlayed   *time.Time      `json:"last_played"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"game,omitempty"`
}

/*
 * 'Wishlist' marks intent to own. Unique per (user, game); removed by
 * explicit user action or implicitly when the pair is fulfilled into the
 * library.
 */
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_game" json:"user_id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_game" json:"game_id"`
	AddedDate time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_date"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"game,omitempty"`
}
