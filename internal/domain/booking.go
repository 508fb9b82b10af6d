package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	FlightID       string    `json:"flight_id"`
	ReturnFlightID *string   `json:"return_flight_id"`
	PassengerName  string    `json:"passenger_name"`
	TotalTickets   int       `json:"total_tickets"`
	TotalPricePaid int64     `json:"total_price_paid"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type Ticket struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	FlightID      string    `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	SeatClass     SeatClass `json:"seat_class"`
	SeatNumber    *string   `json:"seat_number"`
	PriceCents    int64     `json:"price_cents"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingDetails is a booking joined with its flights and tickets,
// as returned by the tickets overview endpoint.
type BookingDetails struct {
	Booking      Booking  `json:"booking"`
	Flight       *Flight  `json:"flight"`
	ReturnFlight *Flight  `json:"return_flight"`
	Tickets      []Ticket `json:"tickets"`
}
