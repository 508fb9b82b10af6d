package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrProfileNotFound = errors.New("profile not found")

	ErrEmptyBookingRequest = errors.New("booking request contains no tickets")
	ErrInvalidSeatClass    = errors.New("invalid seat class")
	ErrInvalidGender       = errors.New("invalid gender")
	ErrTicketInactive      = errors.New("ticket is already deactivated")
)

// InsufficientSeatsError reports a seat-class shortage on one flight.
type InsufficientSeatsError struct {
	FlightID  string
	Class     SeatClass
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough %s seats on flight %s: requested %d, available %d",
		e.Class, e.FlightID, e.Requested, e.Available)
}
