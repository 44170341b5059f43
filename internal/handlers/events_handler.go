package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

// EventsHandler streams hub notifications as server-sent events, so a
// client can refetch when something changed from any source.
type EventsHandler struct {
	hub       *hub.Hub
	keepAlive time.Duration
}

func NewEventsHandler(h *hub.Hub, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &EventsHandler{hub: h, keepAlive: keepAlive}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	events := make(chan hub.Event, 16)
	unsubscribe := h.hub.Subscribe(func(ev hub.Event) {
		select {
		case events <- ev:
		default:
			// the client is behind; it refetches on the next event anyway
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
