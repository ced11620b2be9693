package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'User' contains the blueprint definition of a store account. It contains
 * a reference to UserProfile
 */
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationship with the store profile
	Profile UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

/*
 * 'UserProfile' is the one-to-one extension of a User. It is created
 * lazily on first access, so every authenticated user eventually has
 * exactly one profile.
 */
type UserProfile struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	AvatarURL     string         `gorm:"size:500" json:"avatar_url"`
	StatusMessage string         `gorm:"size:500" json:"status_message"`
	Level         int            `gorm:"default:1" json:"level"`
	XP            int            `gorm:"default:0" json:"xp"`
	Stats         datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"stats"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}
