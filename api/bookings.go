package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/auth"
	"github.com/mkravets/aerobook/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/create", h.create)
	router.GET("/tickets", h.listTickets)
	router.PATCH("/tickets/:id/status", h.deactivateTicket)
	router.DELETE("/:id", h.remove)
}

func (h *BookingHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	result, err := h.service.ListBookings(c.Request.Context(), auth.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), auth.UserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking": result.Booking,
		"tickets": result.Tickets,
		"message": "booking confirmed",
	})
}

func (h *BookingHandler) listTickets(c *gin.Context) {
	details, err := h.service.ListBookingDetails(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) deactivateTicket(c *gin.Context) {
	ticket, booking, err := h.service.DeactivateTicket(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticket":  ticket,
		"booking": booking,
		"message": "ticket deactivated",
	})
}

func (h *BookingHandler) remove(c *gin.Context) {
	if err := h.service.RemoveBooking(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
