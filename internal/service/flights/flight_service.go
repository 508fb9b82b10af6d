package flights

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/repository"
)

// recommendWindowDays bounds the departure-date window around the requested
// date for route recommendations.
const recommendWindowDays = 5

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error)
	Recommend(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id string) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error) {
	return s.repo.Search(ctx, origin, destination, day)
}

// Recommend returns flights on the requested route departing within
// recommendWindowDays either side of the requested date.
func (s *FlightService) Recommend(ctx context.Context, origin, destination string, day time.Time) ([]domain.Flight, error) {
	from := day.AddDate(0, 0, -recommendWindowDays)
	to := day.AddDate(0, 0, recommendWindowDays)
	return s.repo.SearchWindow(ctx, origin, destination, from, to)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	flight.ID = uuid.NewString()
	if err := s.repo.Create(ctx, flight); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

func (s *FlightService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
