package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

// Register wires the flight routes. Reads are public, mutations require a
// bearer token.
func (h *FlightHandler) Register(public, protected *gin.RouterGroup) {
	public.GET("", h.list)
	public.GET("/search", h.search)
	public.GET("/recommend", h.recommend)
	public.GET("/:id", h.get)
	protected.POST("", h.create)
	protected.DELETE("/:id", h.delete)
}

type createFlightRequest struct {
	Airline             string    `json:"airline" binding:"required"`
	FlightNumber        string    `json:"flight_number" binding:"required"`
	Origin              string    `json:"origin" binding:"required"`
	Destination         string    `json:"destination" binding:"required"`
	DepartureTime       time.Time `json:"departure_time" binding:"required"`
	ArrivalTime         time.Time `json:"arrival_time" binding:"required"`
	EconomyPrice        int64     `json:"economy_price"`
	PremiumPrice        int64     `json:"premium_price"`
	BusinessPrice       int64     `json:"business_price"`
	FirstClassPrice     int64     `json:"first_class_price"`
	EconomyAvailable    int       `json:"economy_available"`
	PremiumAvailable    int       `json:"premium_available"`
	BusinessAvailable   int       `json:"business_available"`
	FirstClassAvailable int       `json:"first_class_available"`
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	origin, destination, day, ok := routeQuery(c)
	if !ok {
		return
	}
	flights, err := h.service.Search(c.Request.Context(), origin, destination, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) recommend(c *gin.Context) {
	origin, destination, day, ok := routeQuery(c)
	if !ok {
		return
	}
	flights, err := h.service.Recommend(c.Request.Context(), origin, destination, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight := domain.Flight{
		Airline:             req.Airline,
		FlightNumber:        req.FlightNumber,
		Origin:              req.Origin,
		Destination:         req.Destination,
		DepartureTime:       req.DepartureTime,
		ArrivalTime:         req.ArrivalTime,
		EconomyPrice:        req.EconomyPrice,
		PremiumPrice:        req.PremiumPrice,
		BusinessPrice:       req.BusinessPrice,
		FirstClassPrice:     req.FirstClassPrice,
		EconomyAvailable:    req.EconomyAvailable,
		PremiumAvailable:    req.PremiumAvailable,
		BusinessAvailable:   req.BusinessAvailable,
		FirstClassAvailable: req.FirstClassAvailable,
	}
	if err := h.service.Create(c.Request.Context(), &flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func routeQuery(c *gin.Context) (origin, destination string, day time.Time, ok bool) {
	origin = c.Query("origin")
	destination = c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
		return "", "", time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return "", "", time.Time{}, false
	}
	return origin, destination, day, true
}
