package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/aerobook/internal/domain"
)

// SeatDecrement is one seat-class reservation inside a booking transaction.
// Decrements are applied in the order given, so callers sort them to keep
// row-lock acquisition deterministic across concurrent bookings.
type SeatDecrement struct {
	FlightID string
	Class    domain.SeatClass
	Count    int
}

type BookingRepository interface {
	CreateWithTickets(ctx context.Context, booking *domain.Booking, tickets []domain.Ticket, decrements []SeatDecrement) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]domain.Booking, int, error)
	ListDetailsByUser(ctx context.Context, userID string) ([]domain.BookingDetails, error)
	UpdateAggregates(ctx context.Context, bookingID string, totalTickets int, roster string) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

const bookingColumns = `id, user_id, flight_id, return_flight_id, passenger_name,
	total_tickets, total_price_paid, is_active, created_at`

func bookingFields(b *domain.Booking) []any {
	return []any{
		&b.ID, &b.UserID, &b.FlightID, &b.ReturnFlightID, &b.PassengerName,
		&b.TotalTickets, &b.TotalPricePaid, &b.IsActive, &b.CreatedAt,
	}
}

const ticketColumns = `id, booking_id, flight_id, passenger_name, seat_class,
	seat_number, price_cents, is_active, created_at`

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID, &t.BookingID, &t.FlightID, &t.PassengerName, &t.SeatClass,
		&t.SeatNumber, &t.PriceCents, &t.IsActive, &t.CreatedAt,
	}
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreateWithTickets reserves seats, inserts the booking and inserts its
// tickets in a single transaction. The decrement is guarded by the current
// availability, so two concurrent bookings racing for the last seats cannot
// both commit: the loser sees zero rows affected and the whole transaction
// rolls back.
func (r *PGBookingRepository) CreateWithTickets(ctx context.Context, booking *domain.Booking, tickets []domain.Ticket, decrements []SeatDecrement) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range decrements {
		col := availableColumn(d.Class)
		res, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE flights SET %s = %s - $2 WHERE id=$1 AND %s >= $2`, col, col, col),
			d.FlightID, d.Count)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			var available int
			err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM flights WHERE id=$1`, col), d.FlightID).Scan(&available)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrFlightNotFound
			}
			if err != nil {
				return err
			}
			return &domain.InsufficientSeatsError{
				FlightID:  d.FlightID,
				Class:     d.Class,
				Requested: d.Count,
				Available: available,
			}
		}
	}

	booking.IsActive = true
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, flight_id, return_flight_id, passenger_name, total_tickets, total_price_paid, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		booking.ID, booking.UserID, booking.FlightID, booking.ReturnFlightID, booking.PassengerName,
		booking.TotalTickets, booking.TotalPricePaid, booking.IsActive).
		Scan(&booking.CreatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i := range tickets {
		tickets[i].BookingID = booking.ID
		tickets[i].IsActive = true
		batch.Queue(`INSERT INTO tickets (id, booking_id, flight_id, passenger_name, seat_class, seat_number, price_cents, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`,
			tickets[i].ID, tickets[i].BookingID, tickets[i].FlightID, tickets[i].PassengerName,
			tickets[i].SeatClass, tickets[i].SeatNumber, tickets[i].PriceCents, tickets[i].IsActive)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range tickets {
		if err := results.QueryRow().Scan(&tickets[i].CreatedAt); err != nil {
			results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(bookingFields(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]domain.Booking, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingFields(&b)...); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

// ListDetailsByUser returns the user's bookings joined with their outbound and
// return flights and all of their tickets.
func (r *PGBookingRepository) ListDetailsByUser(ctx context.Context, userID string) ([]domain.BookingDetails, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingFields(&b)...); err != nil {
			rows.Close()
			return nil, err
		}
		bookings = append(bookings, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []domain.BookingDetails{}, nil
	}

	flightIDs := make([]string, 0, len(bookings)*2)
	bookingIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		flightIDs = append(flightIDs, b.FlightID)
		if b.ReturnFlightID != nil {
			flightIDs = append(flightIDs, *b.ReturnFlightID)
		}
		bookingIDs = append(bookingIDs, b.ID)
	}

	frows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ANY($1)`, flightIDs)
	if err != nil {
		return nil, err
	}
	flightsByID := make(map[string]domain.Flight)
	for frows.Next() {
		var f domain.Flight
		if err := frows.Scan(flightFields(&f)...); err != nil {
			frows.Close()
			return nil, err
		}
		flightsByID[f.ID] = f
	}
	frows.Close()
	if err := frows.Err(); err != nil {
		return nil, err
	}

	trows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE booking_id = ANY($1) ORDER BY created_at`, bookingIDs)
	if err != nil {
		return nil, err
	}
	ticketsByBooking := make(map[string][]domain.Ticket)
	for trows.Next() {
		var t domain.Ticket
		if err := trows.Scan(ticketFields(&t)...); err != nil {
			trows.Close()
			return nil, err
		}
		ticketsByBooking[t.BookingID] = append(ticketsByBooking[t.BookingID], t)
	}
	trows.Close()
	if err := trows.Err(); err != nil {
		return nil, err
	}

	details := make([]domain.BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		d := domain.BookingDetails{Booking: b, Tickets: ticketsByBooking[b.ID]}
		if f, ok := flightsByID[b.FlightID]; ok {
			d.Flight = &f
		}
		if b.ReturnFlightID != nil {
			if f, ok := flightsByID[*b.ReturnFlightID]; ok {
				d.ReturnFlight = &f
			}
		}
		if d.Tickets == nil {
			d.Tickets = []domain.Ticket{}
		}
		details = append(details, d)
	}
	return details, nil
}

func (r *PGBookingRepository) UpdateAggregates(ctx context.Context, bookingID string, totalTickets int, roster string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET total_tickets=$2, passenger_name=$3 WHERE id=$1
		RETURNING `+bookingColumns, bookingID, totalTickets, roster)
	var b domain.Booking
	if err := row.Scan(bookingFields(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
