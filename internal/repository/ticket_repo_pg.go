package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/aerobook/internal/domain"
)

type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Deactivate(ctx context.Context, id string) (*domain.Ticket, error)
	ListActiveByBooking(ctx context.Context, bookingID string) ([]domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	var t domain.Ticket
	if err := row.Scan(ticketFields(&t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Deactivate flips the ticket inactive exactly once. A repeated call finds no
// active row and reports the ticket inactive, so the caller never releases the
// same seat twice.
func (r *PGTicketRepository) Deactivate(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets SET is_active=false WHERE id=$1 AND is_active=true RETURNING `+ticketColumns, id)
	var t domain.Ticket
	if err := row.Scan(ticketFields(&t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var active bool
			switch err := r.db.QueryRow(ctx, `SELECT is_active FROM tickets WHERE id=$1`, id).Scan(&active); {
			case errors.Is(err, pgx.ErrNoRows):
				return nil, domain.ErrTicketNotFound
			case err != nil:
				return nil, err
			}
			return nil, domain.ErrTicketInactive
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) ListActiveByBooking(ctx context.Context, bookingID string) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets
		WHERE booking_id=$1 AND is_active=true ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(ticketFields(&t)...); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

var _ TicketRepository = (*PGTicketRepository)(nil)
