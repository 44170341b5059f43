package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
)

type NotificationHandler struct {
	service *notification.Service
}

func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.service.Enabled(c.Request.Context(), middleware.ClientID(c))})
}

func (h *NotificationHandler) RequestPermission(c *gin.Context) {
	permission, err := h.service.RequestPermission(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": permission})
}

func (h *NotificationHandler) Disable(c *gin.Context) {
	if err := h.service.Disable(c.Request.Context(), middleware.ClientID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
