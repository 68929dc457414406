package handlers

import (
	"errors"
	"net/http"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/middleware"
	"hallbook/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps workflow errors onto HTTP statuses. Unknown errors are
// never echoed back to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrAlreadyPaid),
		errors.Is(err, apperrors.ErrNoPayment),
		errors.Is(err, apperrors.ErrRefundWindow),
		errors.Is(err, apperrors.ErrPaymentVerification),
		errors.Is(err, apperrors.ErrRequestResolved):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrHallNotFound),
		errors.Is(err, apperrors.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotBookingOwner),
		errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// userID pulls the authenticated user from the request context
func userID(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}
