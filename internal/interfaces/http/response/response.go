package response

import (
	"errors"
	"net/http"

	domainerrors "giftroom.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. AppErrors carry their own status; plain
// domain sentinels are mapped here so handlers can pass them through.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Code, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	})
}

func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Resource not found")
	case errors.Is(err, domainerrors.ErrGiftNotFound):
		return domainerrors.NotFound("Gift not found or inactive")
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest("Invalid input")
	case errors.Is(err, domainerrors.ErrSelfGift):
		return domainerrors.BadRequest("Cannot send a gift to yourself")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("Insufficient permissions")
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		return domainerrors.UnprocessableEntity("Insufficient balance", err)
	case errors.Is(err, domainerrors.ErrGrantAlreadyActive):
		return domainerrors.Conflict("Grant already active", err)
	case errors.Is(err, domainerrors.ErrDuplicateRequest), errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("Duplicate request", err)
	case errors.Is(err, domainerrors.ErrConcurrencyConflict):
		return domainerrors.Conflict("Concurrent update, retry", err)
	case errors.Is(err, domainerrors.ErrStorageUnavailable):
		return domainerrors.NewAppError(http.StatusServiceUnavailable, "Service temporarily unavailable", err)
	default:
		return domainerrors.InternalError(err)
	}
}
