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
	"github.com/mkravets/aerobook/internal/service/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProfileUseCase is a mock implementation of users.ProfileUseCase
type MockProfileUseCase struct {
	mock.Mock
}

func (m *MockProfileUseCase) CreateProfile(ctx context.Context, userID string, input users.CreateProfileInput) (*domain.Profile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUseCase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUseCase) DeleteProfile(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestProfileHandler_create(t *testing.T) {
	mockService := &MockProfileUseCase{}
	handler := NewProfileHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := users.CreateProfileInput{FullName: "Ivan Petrov"}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/users/profile", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	profile := &domain.Profile{ID: "p1", UserID: "user-1", FullName: "Ivan Petrov"}
	mockService.On("CreateProfile", c.Request.Context(), "user-1", input).Return(profile, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Profile
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", response.FullName)

	mockService.AssertExpectations(t)
}

func TestProfileHandler_create_missingName(t *testing.T) {
	mockService := &MockProfileUseCase{}
	handler := NewProfileHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/users/profile", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateProfile")
}

func TestProfileHandler_get_notFound(t *testing.T) {
	mockService := &MockProfileUseCase{}
	handler := NewProfileHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/users/profile", nil)
	c.Set("user_id", "user-1")

	mockService.On("GetProfile", c.Request.Context(), "user-1").Return(nil, domain.ErrProfileNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestProfileHandler_update(t *testing.T) {
	mockService := &MockProfileUseCase{}
	handler := NewProfileHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	age := 30
	update := domain.ProfileUpdate{Age: &age}
	body, _ := json.Marshal(update)
	c.Request = httptest.NewRequest("PUT", "/users/profile", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	profile := &domain.Profile{ID: "p1", UserID: "user-1", FullName: "Ivan Petrov", Age: &age}
	mockService.On("UpdateProfile", c.Request.Context(), "user-1", update).Return(profile, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestProfileHandler_delete(t *testing.T) {
	mockService := &MockProfileUseCase{}
	handler := NewProfileHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("DELETE", "/users/profile", nil)
	c.Set("user_id", "user-1")

	mockService.On("DeleteProfile", c.Request.Context(), "user-1").Return(nil)

	handler.delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
