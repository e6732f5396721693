package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
	"github.com/Matuku45/shuttle-booking-system/internal/utils"
)

// RespondDomainError maps domain errors onto the shared envelope. Store
// errors surface as a generic message so internals never leak.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	case domain.IsForbidden(err):
		RespondError(c, http.StatusForbidden, err.Error())
	case domain.IsAuth(err):
		RespondError(c, http.StatusUnauthorized, err.Error())
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, "Database error")
	}
}
