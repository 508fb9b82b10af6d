package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, userID string, input booking.CreateBookingInput) (*booking.CreateBookingResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CreateBookingResult), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string, page, limit int) (*booking.BookingPage, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingPage), args.Error(1)
}

func (m *MockBookingUseCase) ListBookingDetails(ctx context.Context, userID string) ([]domain.BookingDetails, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BookingDetails), args.Error(1)
}

func (m *MockBookingUseCase) DeactivateTicket(ctx context.Context, userID, ticketID string) (*domain.Ticket, *domain.Booking, error) {
	args := m.Called(ctx, userID, ticketID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Ticket), args.Get(1).(*domain.Booking), args.Error(2)
}

func (m *MockBookingUseCase) RemoveBooking(ctx context.Context, userID, bookingID string) error {
	args := m.Called(ctx, userID, bookingID)
	return args.Error(0)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := booking.CreateBookingInput{
		Tickets: []booking.TicketRequest{
			{FlightID: "f1", PassengerName: "A", SeatClass: domain.SeatClassEconomy},
		},
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/bookings/create", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	result := &booking.CreateBookingResult{
		Booking: &domain.Booking{ID: "b1", UserID: "user-1", FlightID: "f1", TotalTickets: 1, TotalPricePaid: 100},
		Tickets: []domain.Ticket{{ID: "t1", BookingID: "b1", FlightID: "f1", PassengerName: "A"}},
		Status:  domain.BookingStatusConfirmed,
	}
	mockService.On("CreateBooking", c.Request.Context(), "user-1", input).Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Booking domain.Booking  `json:"booking"`
		Tickets []domain.Ticket `json:"tickets"`
		Message string          `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "b1", response.Booking.ID)
	assert.Len(t, response.Tickets, 1)
	assert.Equal(t, "booking confirmed", response.Message)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_empty(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(booking.CreateBookingInput{})
	c.Request = httptest.NewRequest("POST", "/bookings/create", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	mockService.On("CreateBooking", c.Request.Context(), "user-1", booking.CreateBookingInput{}).
		Return(nil, domain.ErrEmptyBookingRequest)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_insufficientSeats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := booking.CreateBookingInput{
		Tickets: []booking.TicketRequest{
			{FlightID: "f1", PassengerName: "A", SeatClass: domain.SeatClassBusiness},
		},
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/bookings/create", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	mockService.On("CreateBooking", c.Request.Context(), "user-1", input).
		Return(nil, &domain.InsufficientSeatsError{FlightID: "f1", Class: domain.SeatClassBusiness, Requested: 1, Available: 0})

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "business")
	assert.Contains(t, w.Body.String(), "f1")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings?page=2&limit=10", nil)
	c.Set("user_id", "user-1")

	page := &booking.BookingPage{
		Data:       []domain.Booking{{ID: "b1"}},
		Total:      11,
		Page:       2,
		TotalPages: 2,
	}
	mockService.On("ListBookings", c.Request.Context(), "user-1", 2, 10).Return(page, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response booking.BookingPage
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 11, response.Total)
	assert.Equal(t, 2, response.TotalPages)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_deactivateTicket(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/tickets/t1/status", nil)
	c.Set("user_id", "user-1")

	ticket := &domain.Ticket{ID: "t1", BookingID: "b1", IsActive: false}
	updated := &domain.Booking{ID: "b1", TotalTickets: 1, PassengerName: "B"}
	mockService.On("DeactivateTicket", c.Request.Context(), "user-1", "t1").Return(ticket, updated, nil)

	handler.deactivateTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ticket deactivated")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_deactivateTicket_alreadyInactive(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/tickets/t1/status", nil)
	c.Set("user_id", "user-1")

	mockService.On("DeactivateTicket", c.Request.Context(), "user-1", "t1").Return(nil, nil, domain.ErrTicketInactive)

	handler.deactivateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_deactivateTicket_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/tickets/missing/status", nil)
	c.Set("user_id", "user-1")

	mockService.On("DeactivateTicket", c.Request.Context(), "user-1", "missing").Return(nil, nil, domain.ErrTicketNotFound)

	handler.deactivateTicket(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_remove(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/b1", nil)
	c.Set("user_id", "user-1")

	mockService.On("RemoveBooking", c.Request.Context(), "user-1", "b1").Return(nil)

	handler.remove(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
