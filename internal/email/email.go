package email

import (
	"context"
	"fmt"

	"github.com/mkravets/aerobook/internal/kafka"
)

// Sender delivers booking-confirmation mail for the notifications worker.
type Sender struct {
	from string
}

func NewSender(from string) *Sender {
	return &Sender{from: from}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email from %s to user %s: booking %s is %s (%d tickets, %d paid)\n",
		s.from, event.UserID, event.BookingID, event.Status, event.TotalTickets, event.TotalPricePaid)
	return nil
}
