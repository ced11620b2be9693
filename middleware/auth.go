package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	models "Gamestore/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Context key under which AuthRequired stores the authenticated user id.
const ContextUserID = "user_id"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT issues the bearer token handed out at signup and login.
// Token mechanics are standard jwt/v5 claims, nothing custom.
func GenerateJWT(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", userID),
		"username": username,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// JWT_decoder extracts and validates the bearer token on a request,
// returning the user id it was issued to.
func JWT_decoder(c *gin.Context) (uint, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, fmt.Errorf("missing Authorization header")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return 0, fmt.Errorf("malformed Authorization header")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID == 0 {
		return 0, fmt.Errorf("invalid subject claim")
	}
	return userID, nil
}

// AuthRequired rejects requests without a valid bearer token and stores
// the user id for the handlers down the chain.
func AuthRequired(c *gin.Context) {
	userID, err := JWT_decoder(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(ContextUserID, userID)
	c.Next()
}

// AdminRequired runs after AuthRequired and rejects non-admin accounts.
func AdminRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(ContextUserID)
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
