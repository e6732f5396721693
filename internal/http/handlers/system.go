package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "shuttle booking backend running"})
}

func DBCheck(c *gin.Context) {
	if err := config.EnsureDB(); err != nil {
		RespondError(c, http.StatusInternalServerError, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "database connection OK"})
}
