package controllers

import (
	"log"

	"Gamestore/middleware"
	"Gamestore/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError translates an error into the taxonomy status + JSON body.
// The classified message goes to the client; the wrapped upstream cause
// only to the log.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Err != nil {
		log.Printf("%s: %v", appErr.Code, appErr.Err)
	}
	c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

// currentUserID reads the user id that AuthRequired stored on the context.
func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
