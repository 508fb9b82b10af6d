package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/auth"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/service/users"
)

type ProfileHandler struct {
	service users.ProfileUseCase
}

func NewProfileHandler(service users.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.POST("/profile", h.create)
	router.GET("/profile", h.get)
	router.PUT("/profile", h.update)
	router.DELETE("/profile", h.delete)
}

func (h *ProfileHandler) create(c *gin.Context) {
	var input users.CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), auth.UserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) get(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) update(c *gin.Context) {
	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), auth.UserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) delete(c *gin.Context) {
	if err := h.service.DeleteProfile(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
