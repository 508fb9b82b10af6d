package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/aerobook/internal/auth"
	"github.com/mkravets/aerobook/internal/events"
)

// EventsHandler streams booking-confirmation events to the authenticated
// user over server-sent events.
type EventsHandler struct {
	hub      *events.Hub
	verifier *auth.Verifier
}

func NewEventsHandler(hub *events.Hub, verifier *auth.Verifier) *EventsHandler {
	return &EventsHandler{hub: hub, verifier: verifier}
}

func (h *EventsHandler) Register(router *gin.RouterGroup) {
	router.GET("/events", h.stream)
}

// stream authenticates the token query parameter, subscribes the connection
// to the hub and relays matching events until the client goes away.
// EventSource cannot set headers, hence the query-parameter credential.
func (h *EventsHandler) stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}
	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ch, cancel := h.hub.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("booking_confirmed", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
