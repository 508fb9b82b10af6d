package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Persistence errors fall
// through as 500s.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	var insufficient *domain.InsufficientSeatsError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyBookingRequest),
		errors.Is(err, domain.ErrInvalidSeatClass),
		errors.Is(err, domain.ErrInvalidGender),
		errors.Is(err, domain.ErrTicketInactive),
		errors.As(err, &insufficient):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
