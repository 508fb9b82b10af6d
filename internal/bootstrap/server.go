package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/api"
	"github.com/mkravets/aerobook/config"
	"github.com/mkravets/aerobook/internal/auth"
	"github.com/mkravets/aerobook/internal/events"
	"github.com/mkravets/aerobook/internal/service/booking"
	"github.com/mkravets/aerobook/internal/service/flights"
	"github.com/mkravets/aerobook/internal/service/users"
)

// Services collects everything the HTTP surface needs.
type Services struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Profiles users.ProfileUseCase
	Hub      *events.Hub
	Verifier *auth.Verifier
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine and registers every handler.
func NewRouter(svc Services) *gin.Engine {
	router := gin.Default()
	authRequired := auth.Middleware(svc.Verifier)

	flightHandler := api.NewFlightHandler(svc.Flights)
	flightHandler.Register(router.Group("/flights"), router.Group("/flights", authRequired))

	bookingHandler := api.NewBookingHandler(svc.Bookings)
	bookingHandler.Register(router.Group("/bookings", authRequired))

	profileHandler := api.NewProfileHandler(svc.Profiles)
	profileHandler.Register(router.Group("/users", authRequired))

	eventsHandler := api.NewEventsHandler(svc.Hub, svc.Verifier)
	eventsHandler.Register(router.Group("/booking"))

	return router
}
