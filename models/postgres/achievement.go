package postgres

import (
	"time"
)

/*
 * 'Achievement' belongs to a game and rewards XP when unlocked.
 * 'UserAchievement' records an unlock, unique per (user, achievement).
 */
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GameID      uint   `gorm:"not null;index" json:"game_id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IconURL     string `gorm:"size:500" json:"icon_url"`
	XPReward    int    `gorm:"default:10" json:"xp_reward"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedDate  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"unlocked_date"`

	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
}
