package entitlement

import (
	"time"

	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"

	"gorm.io/gorm"
)

// Entitlement operations take the *gorm.DB they should run on, so the
// checkout orchestrator can pass its transaction handle and the CRUD
// controllers the plain connection.

// Grant upserts a library row for (user, game). Granting an already
// owned game is not an error; the existing row is returned untouched.
func Grant(db *gorm.DB, userID, gameID uint, purchasedAt time.Time) (*models.GameLibrary, error) {
	var entry models.GameLibrary
	err := db.Where(models.GameLibrary{UserID: userID, GameID: gameID}).
		Attrs(models.GameLibrary{PurchaseDate: purchasedAt}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return nil, apperrors.Internal("error granting game", err)
	}
	return &entry, nil
}

// RevokeWishlist deletes the wishlist row for (user, game). Removing an
// absent entry is not an error.
func RevokeWishlist(db *gorm.DB, userID, gameID uint) error {
	err := db.Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.Wishlist{}).Error
	if err != nil {
		return apperrors.Internal("error removing wishlist entry", err)
	}
	return nil
}

// ListLibrary returns the user's owned games, newest purchase first.
func ListLibrary(db *gorm.DB, userID uint) ([]models.GameLibrary, error) {
	var entries []models.GameLibrary
	err := db.Preload("Game").Where("user_id = ?", userID).
		Order("purchase_date DESC").Find(&entries).Error
	if err != nil {
		return nil, apperrors.Internal("error fetching library", err)
	}
	return entries, nil
}

// ListWishlist returns the user's wishlist, newest addition first.
func ListWishlist(db *gorm.DB, userID uint) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	err := db.Preload("Game").Where("user_id = ?", userID).
		Order("added_date DESC").Find(&entries).Error
	if err != nil {
		return nil, apperrors.Internal("error fetching wishlist", err)
	}
	return entries, nil
}
