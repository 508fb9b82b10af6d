package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/aerobook/config"
	"github.com/mkravets/aerobook/internal/auth"
	"github.com/mkravets/aerobook/internal/bootstrap"
	"github.com/mkravets/aerobook/internal/cache"
	"github.com/mkravets/aerobook/internal/events"
	"github.com/mkravets/aerobook/internal/kafka"
	"github.com/mkravets/aerobook/internal/repository"
	"github.com/mkravets/aerobook/internal/service/booking"
	"github.com/mkravets/aerobook/internal/service/flights"
	"github.com/mkravets/aerobook/internal/service/users"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	hub := events.NewHub()
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		ticketRepo,
		redisCache,
		time.Duration(cfg.Booking.FlightLockTTLSeconds)*time.Second,
		booking.WithNotifier(hub),
		booking.WithNotificationsTopic(producer, cfg.Kafka.NotificationsTopic),
	)
	profileService := users.NewProfileService(profileRepo)

	svc := bootstrap.Services{
		Flights:  flightService,
		Bookings: bookingService,
		Profiles: profileService,
		Hub:      hub,
		Verifier: verifier,
	}
	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runMigrations(cfg *config.Config) error {
	dir := cfg.Database.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}
	m, err := migrate.New("file://"+dir, cfg.Database.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
