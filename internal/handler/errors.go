package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/service"
)

// writeError maps service and domain errors onto HTTP statuses. Anything
// unrecognised is reported as a 500 without its message.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrRatingOutOfRange),
		errors.Is(err, model.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCartItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, model.ErrOrderNotReturnable):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
