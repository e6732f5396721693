package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
)

// RespondError sends the standard error envelope with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// IDParam parses the :id path segment; on failure it responds 400.
func IDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
