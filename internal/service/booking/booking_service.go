package booking

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/events"
	"github.com/mkravets/aerobook/internal/kafka"
	"github.com/mkravets/aerobook/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*CreateBookingResult, error)
	ListBookings(ctx context.Context, userID string, page, limit int) (*BookingPage, error)
	ListBookingDetails(ctx context.Context, userID string) ([]domain.BookingDetails, error)
	DeactivateTicket(ctx context.Context, userID, ticketID string) (*domain.Ticket, *domain.Booking, error)
	RemoveBooking(ctx context.Context, userID, bookingID string) error
}

// Cache serializes booking creation per flight and keeps the flight list
// cache coherent after inventory writes.
type Cache interface {
	AcquireFlightLock(ctx context.Context, flightID string, ttl time.Duration) (bool, error)
	ReleaseFlightLock(ctx context.Context, flightID string) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Notifier delivers confirmation events to clients connected to this
// instance.
type Notifier interface {
	Publish(event events.BookingConfirmed)
}

type TicketRequest struct {
	FlightID      string           `json:"flight_id"`
	PassengerName string           `json:"passenger_name"`
	SeatClass     domain.SeatClass `json:"seat_class"`
}

type CreateBookingInput struct {
	Tickets      []TicketRequest `json:"data"`
	ReturnBooked bool            `json:"return_booked"`
}

type CreateBookingResult struct {
	Booking *domain.Booking
	Tickets []domain.Ticket
	Status  domain.BookingStatus
}

type BookingPage struct {
	Data       []domain.Booking `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

const (
	defaultPage  = 1
	defaultLimit = 100
)

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	tickets            repository.TicketRepository
	cache              Cache
	notifier           Notifier
	producer           Producer
	notificationsTopic string
	lockTTL            time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func WithNotifier(notifier Notifier) BookingServiceOption {
	return func(s *BookingService) {
		s.notifier = notifier
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	tickets repository.TicketRepository,
	cache Cache,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		tickets:  tickets,
		cache:    cache,
		lockTTL:  lockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates seat availability for every requested flight and
// class, prices each ticket from the flight's class price table, and persists
// the booking, its tickets and the seat decrements in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*CreateBookingResult, error) {
	if len(input.Tickets) == 0 {
		return nil, domain.ErrEmptyBookingRequest
	}
	for _, req := range input.Tickets {
		if !req.SeatClass.Valid() {
			return nil, domain.ErrInvalidSeatClass
		}
	}

	// Group requests by flight, first-appearance order.
	flightOrder := make([]string, 0, len(input.Tickets))
	counts := make(map[string]map[domain.SeatClass]int)
	for _, req := range input.Tickets {
		if counts[req.FlightID] == nil {
			counts[req.FlightID] = make(map[domain.SeatClass]int)
			flightOrder = append(flightOrder, req.FlightID)
		}
		counts[req.FlightID][req.SeatClass]++
	}

	// Fetch and validate every flight before any write happens.
	flightsByID := make(map[string]*domain.Flight, len(flightOrder))
	for _, flightID := range flightOrder {
		flight, err := s.flights.GetByID(ctx, flightID)
		if err != nil {
			return nil, err
		}
		for class, requested := range counts[flightID] {
			if available := flight.AvailableSeats(class); available < requested {
				return nil, &domain.InsufficientSeatsError{
					FlightID:  flightID,
					Class:     class,
					Requested: requested,
					Available: available,
				}
			}
		}
		flightsByID[flightID] = flight
	}

	tickets := make([]domain.Ticket, 0, len(input.Tickets))
	names := make([]string, 0, len(input.Tickets))
	var total int64
	for _, req := range input.Tickets {
		price := flightsByID[req.FlightID].PriceCents(req.SeatClass)
		total += price
		names = append(names, req.PassengerName)
		tickets = append(tickets, domain.Ticket{
			ID:            uuid.NewString(),
			FlightID:      req.FlightID,
			PassengerName: req.PassengerName,
			SeatClass:     req.SeatClass,
			PriceCents:    price,
		})
	}

	booking := &domain.Booking{
		ID:             uuid.NewString(),
		UserID:         userID,
		FlightID:       input.Tickets[0].FlightID,
		PassengerName:  strings.Join(names, ", "),
		TotalTickets:   len(input.Tickets),
		TotalPricePaid: total,
	}
	if input.ReturnBooked {
		returnFlightID := input.Tickets[len(input.Tickets)-1].FlightID
		booking.ReturnFlightID = &returnFlightID
	}

	release := s.lockFlights(ctx, flightOrder)
	defer release()

	if err := s.bookings.CreateWithTickets(ctx, booking, tickets, sortedDecrements(counts)); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	s.publishConfirmed(ctx, booking)

	return &CreateBookingResult{
		Booking: booking,
		Tickets: tickets,
		Status:  domain.BookingStatusConfirmed,
	}, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string, page, limit int) (*BookingPage, error) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	bookings, total, err := s.bookings.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &BookingPage{
		Data:       bookings,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *BookingService) ListBookingDetails(ctx context.Context, userID string) ([]domain.BookingDetails, error) {
	return s.bookings.ListDetailsByUser(ctx, userID)
}

// DeactivateTicket marks the ticket inactive, recomputes the owning booking's
// ticket count and passenger roster from the remaining active tickets, and
// returns the freed seat to the flight's inventory. Only the booking's owner
// may deactivate, a repeated call reports the ticket inactive instead of
// releasing the seat again, and the booking's total_price_paid records what
// was charged at creation and is never recomputed here.
func (s *BookingService) DeactivateTicket(ctx context.Context, userID, ticketID string) (*domain.Ticket, *domain.Booking, error) {
	existing, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkOwner(ctx, userID, existing.BookingID, domain.ErrTicketNotFound); err != nil {
		return nil, nil, err
	}
	if !existing.IsActive {
		return nil, nil, domain.ErrTicketInactive
	}

	ticket, err := s.tickets.Deactivate(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}

	remaining, err := s.tickets.ListActiveByBooking(ctx, ticket.BookingID)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(remaining))
	for _, t := range remaining {
		names = append(names, t.PassengerName)
	}

	booking, err := s.bookings.UpdateAggregates(ctx, ticket.BookingID, len(remaining), strings.Join(names, ", "))
	if err != nil {
		return nil, nil, err
	}

	if err := s.flights.ReleaseSeat(ctx, ticket.FlightID, ticket.SeatClass); err != nil {
		return nil, nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}

	return ticket, booking, nil
}

func (s *BookingService) RemoveBooking(ctx context.Context, userID, bookingID string) error {
	if err := s.checkOwner(ctx, userID, bookingID, domain.ErrBookingNotFound); err != nil {
		return err
	}
	return s.bookings.Delete(ctx, bookingID)
}

// checkOwner verifies the booking belongs to the caller. A foreign booking
// reports notFoundErr rather than revealing that the id exists.
func (s *BookingService) checkOwner(ctx context.Context, userID, bookingID string, notFoundErr error) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return notFoundErr
	}
	return nil
}

// lockFlights takes best-effort per-flight locks in sorted order and returns
// the release function. A lock that cannot be acquired is skipped: the
// guarded decrement inside the booking transaction is the correctness
// backstop, the lock only reduces conflict churn.
func (s *BookingService) lockFlights(ctx context.Context, flightIDs []string) func() {
	if s.cache == nil {
		return func() {}
	}
	sorted := append([]string(nil), flightIDs...)
	sort.Strings(sorted)

	acquired := make([]string, 0, len(sorted))
	for _, id := range sorted {
		ok, err := s.cache.AcquireFlightLock(ctx, id, s.lockTTL)
		if err != nil {
			log.Printf("acquire flight lock %s: %v", id, err)
			continue
		}
		if ok {
			acquired = append(acquired, id)
		}
	}
	return func() {
		for _, id := range acquired {
			if err := s.cache.ReleaseFlightLock(ctx, id); err != nil {
				log.Printf("release flight lock %s: %v", id, err)
			}
		}
	}
}

func (s *BookingService) publishConfirmed(ctx context.Context, booking *domain.Booking) {
	if s.notifier != nil {
		s.notifier.Publish(events.BookingConfirmed{
			BookingID: booking.ID,
			UserID:    booking.UserID,
			Status:    string(domain.BookingStatusConfirmed),
		})
	}
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           "booking_confirmed",
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		Status:         string(domain.BookingStatusConfirmed),
		TotalTickets:   booking.TotalTickets,
		TotalPricePaid: booking.TotalPricePaid,
		CreatedAt:      booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for booking %s: %v", booking.ID, err)
	}
}

func sortedDecrements(counts map[string]map[domain.SeatClass]int) []repository.SeatDecrement {
	decrements := make([]repository.SeatDecrement, 0, len(counts))
	for flightID, classes := range counts {
		for class, count := range classes {
			decrements = append(decrements, repository.SeatDecrement{FlightID: flightID, Class: class, Count: count})
		}
	}
	sort.Slice(decrements, func(i, j int) bool {
		if decrements[i].FlightID != decrements[j].FlightID {
			return decrements[i].FlightID < decrements[j].FlightID
		}
		return decrements[i].Class < decrements[j].Class
	})
	return decrements
}

var _ BookingUseCase = (*BookingService)(nil)
