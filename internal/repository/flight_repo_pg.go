package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/aerobook/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error)
	SearchWindow(ctx context.Context, origin, destination string, from, to time.Time) ([]domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id string) error
	ReleaseSeat(ctx context.Context, flightID string, class domain.SeatClass) error
}

const flightColumns = `id, airline, flight_number, origin, destination, departure_time, arrival_time,
	economy_price, premium_price, business_price, first_class_price,
	economy_available, premium_available, business_available, first_class_available, created_at`

func flightFields(f *domain.Flight) []any {
	return []any{
		&f.ID, &f.Airline, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime,
		&f.EconomyPrice, &f.PremiumPrice, &f.BusinessPrice, &f.FirstClassPrice,
		&f.EconomyAvailable, &f.PremiumAvailable, &f.BusinessAvailable, &f.FirstClassAvailable, &f.CreatedAt,
	}
}

// availableColumn maps a seat class to its counter column. The class must be
// validated before it reaches SQL assembly.
func availableColumn(class domain.SeatClass) string {
	switch class {
	case domain.SeatClassPremium:
		return "premium_available"
	case domain.SeatClassBusiness:
		return "business_available"
	case domain.SeatClassFirstClass:
		return "first_class_available"
	default:
		return "economy_available"
	}
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(flightFields(&f)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_time::date=$3::date
		ORDER BY departure_time`, origin, destination, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) SearchWindow(ctx context.Context, origin, destination string, from, to time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_time::date BETWEEN $3::date AND $4::date
		ORDER BY departure_time`, origin, destination, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights
		(id, airline, flight_number, origin, destination, departure_time, arrival_time,
		 economy_price, premium_price, business_price, first_class_price,
		 economy_available, premium_available, business_available, first_class_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at`,
		flight.ID, flight.Airline, flight.FlightNumber, flight.Origin, flight.Destination,
		flight.DepartureTime, flight.ArrivalTime,
		flight.EconomyPrice, flight.PremiumPrice, flight.BusinessPrice, flight.FirstClassPrice,
		flight.EconomyAvailable, flight.PremiumAvailable, flight.BusinessAvailable, flight.FirstClassAvailable).
		Scan(&flight.CreatedAt)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// ReleaseSeat returns one seat of the given class to the flight's inventory.
func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, flightID string, class domain.SeatClass) error {
	col := availableColumn(class)
	res, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE flights SET %s = %s + 1 WHERE id=$1`, col, col), flightID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(flightFields(&f)...); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
