package entitlement_test

import (
	"fmt"
	"testing"
	"time"

	"Gamestore/models/postgres"
	"Gamestore/services/entitlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		postgres.User{}, postgres.Game{},
		postgres.GameLibrary{}, postgres.Wishlist{}))
	return db
}

func seedUserAndGame(t *testing.T, db *gorm.DB) (uint, uint) {
	user := postgres.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	game := postgres.Game{Title: "Granted", Price: decimal.NewFromInt(10), ReleaseDate: time.Now()}
	require.NoError(t, db.Create(&game).Error)
	return user.ID, game.ID
}

func TestGrantIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	first, err := entitlement.Grant(db, userID, gameID, time.Now())
	require.NoError(t, err)

	second, err := entitlement.Grant(db, userID, gameID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&postgres.GameLibrary{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "double grant must leave exactly one row")
}

func TestRevokeWishlistAbsentIsNotAnError(t *testing.T) {
	db := openTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	assert.NoError(t, entitlement.RevokeWishlist(db, userID, gameID))

	require.NoError(t, db.Create(&postgres.Wishlist{UserID: userID, GameID: gameID}).Error)
	assert.NoError(t, entitlement.RevokeWishlist(db, userID, gameID))

	var count int64
	require.NoError(t, db.Model(&postgres.Wishlist{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListLibraryAndWishlist(t *testing.T) {
	db := openTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	entries, err := entitlement.ListLibrary(db, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = entitlement.Grant(db, userID, gameID, time.Now())
	require.NoError(t, err)

	entries, err = entitlement.ListLibrary(db, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, gameID, entries[0].GameID)
	assert.Equal(t, "Granted", entries[0].Game.Title)

	wish, err := entitlement.ListWishlist(db, userID)
	require.NoError(t, err)
	assert.Empty(t, wish)
}
