package utils

import (
	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"

	"gorm.io/gorm"
)

// CheckGameExists resolves a catalog id, classifying a miss as NotFound.
func CheckGameExists(db *gorm.DB, gameID uint) (*models.Game, error) {
	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("game", err)
		}
		return nil, apperrors.Internal("error fetching game", err)
	}
	return &game, nil
}

// CheckUserExists resolves an account id, classifying a miss as
// Unauthorized since it only happens with a token for a deleted account.
func CheckUserExists(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Unauthorized("user no longer exists", err)
		}
		return nil, apperrors.Internal("error fetching user", err)
	}
	return &user, nil
}

// UserOwnsGame reports whether a library row exists for the pair.
func UserOwnsGame(db *gorm.DB, userID, gameID uint) (bool, error) {
	var count int64
	err := db.Model(&models.GameLibrary{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("error checking ownership", err)
	}
	return count > 0, nil
}
