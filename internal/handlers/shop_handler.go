package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type ShopHandler struct {
	availability *ucAppointment.GetAvailability
}

func NewShopHandler(availability *ucAppointment.GetAvailability) *ShopHandler {
	return &ShopHandler{availability: availability}
}

// Status tells whether the shop is open right now and why not.
func (h *ShopHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.availability.ShopState(c.Request.Context()))
}

// Dates lists the next bookable days.
func (h *ShopHandler) Dates(c *gin.Context) {
	httpresp.List(c, h.availability.Dates(c.Request.Context()))
}
