package controllers

import (
	"net/http"
	"strings"

	"Gamestore/middleware"
	models "Gamestore/models/postgres"
	"Gamestore/pkg/apperrors"
	"Gamestore/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	}
}

// @Summary Register a new user
// @Description Creates an account and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} object{token=string,user=object}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid signup payload", err))
			return
		}

		var existing models.User
		err := db.Where("username = ? OR email = ?", req.Username, req.Email).
			First(&existing).Error
		if err == nil {
			respondError(c, apperrors.Conflict("username or email already taken"))
			return
		}
		if err != gorm.ErrRecordNotFound {
			respondError(c, apperrors.Internal("error checking existing users", err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, apperrors.Internal("error hashing password", err))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			respondError(c, apperrors.Internal("error creating user", err))
			return
		}

		token, err := middleware.GenerateJWT(user.ID, user.Username)
		if err != nil {
			respondError(c, apperrors.Internal("error issuing token", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": userResponse(&user)})
	}
}

// @Summary Login
// @Description Checks credentials and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} object{token=string,user=object}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid login payload", err))
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			respondError(c, apperrors.Unauthorized("invalid username or password", nil))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, apperrors.Unauthorized("invalid username or password", nil))
			return
		}

		token, err := middleware.GenerateJWT(user.ID, user.Username)
		if err != nil {
			respondError(c, apperrors.Internal("error issuing token", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(&user)})
	}
}

// @Summary Logout
// @Description Tokens are stateless; logout just acknowledges so clients drop theirs
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// getOrCreateProfile is the lazy-create-on-read rule: every
// authenticated user eventually has exactly one profile. FirstOrCreate
// runs the probe and insert as one upsert so concurrent first reads
// cannot produce duplicates; the unique index on user_id backs it up.
func getOrCreateProfile(db *gorm.DB, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.Where(models.UserProfile{UserID: userID}).
		Attrs(models.UserProfile{Level: 1}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, apperrors.Internal("error loading profile", err)
	}
	return &profile, nil
}

// @Summary Get current user
// @Description Returns the authenticated user and their profile (created on first access)
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{user=object,profile=object}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		user, err := utils.CheckUserExists(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		profile, err := getOrCreateProfile(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(user), "profile": profile})
	}
}

type updateProfileRequest struct {
	StatusMessage *string `json:"status_message"`
	AvatarURL     *string `json:"avatar_url"`
}

// @Summary Update profile
// @Description Partially updates the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{profile=object}
// @Failure 400 {object} object{error=string}
// @Router /auth/update [patch]
// @Security ApiKeyAuth
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.Validation("invalid profile payload", err))
			return
		}

		profile, err := getOrCreateProfile(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		updates := map[string]interface{}{}
		if req.StatusMessage != nil {
			updates["status_message"] = *req.StatusMessage
		}
		if req.AvatarURL != nil {
			updates["avatar_url"] = *req.AvatarURL
		}
		if len(updates) > 0 {
			if err := db.Model(profile).Updates(updates).Error; err != nil {
				respondError(c, apperrors.Internal("error updating profile", err))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"profile": profile})
	}
}
