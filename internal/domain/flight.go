package domain

import "time"

type SeatClass string

const (
	SeatClassEconomy    SeatClass = "economy"
	SeatClassPremium    SeatClass = "premium"
	SeatClassBusiness   SeatClass = "business"
	SeatClassFirstClass SeatClass = "first_class"
)

func (c SeatClass) Valid() bool {
	switch c {
	case SeatClassEconomy, SeatClassPremium, SeatClassBusiness, SeatClassFirstClass:
		return true
	}
	return false
}

type Flight struct {
	ID                  string    `json:"id"`
	Airline             string    `json:"airline"`
	FlightNumber        string    `json:"flight_number"`
	Origin              string    `json:"origin"`
	Destination         string    `json:"destination"`
	DepartureTime       time.Time `json:"departure_time"`
	ArrivalTime         time.Time `json:"arrival_time"`
	EconomyPrice        int64     `json:"economy_price"`
	PremiumPrice        int64     `json:"premium_price"`
	BusinessPrice       int64     `json:"business_price"`
	FirstClassPrice     int64     `json:"first_class_price"`
	EconomyAvailable    int       `json:"economy_available"`
	PremiumAvailable    int       `json:"premium_available"`
	BusinessAvailable   int       `json:"business_available"`
	FirstClassAvailable int       `json:"first_class_available"`
	CreatedAt           time.Time `json:"created_at"`
}

// PriceCents returns the price of one seat of the given class.
func (f *Flight) PriceCents(class SeatClass) int64 {
	switch class {
	case SeatClassPremium:
		return f.PremiumPrice
	case SeatClassBusiness:
		return f.BusinessPrice
	case SeatClassFirstClass:
		return f.FirstClassPrice
	default:
		return f.EconomyPrice
	}
}

// AvailableSeats returns the remaining seat count for the given class.
func (f *Flight) AvailableSeats(class SeatClass) int {
	switch class {
	case SeatClassPremium:
		return f.PremiumAvailable
	case SeatClassBusiness:
		return f.BusinessAvailable
	case SeatClassFirstClass:
		return f.FirstClassAvailable
	default:
		return f.EconomyAvailable
	}
}
