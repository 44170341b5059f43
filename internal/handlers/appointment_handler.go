package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	cancel       *ucAppointment.CancelAppointment
	list         *ucAppointment.ListClientAppointments
	availability *ucAppointment.GetAvailability
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListClientAppointments,
	availability *ucAppointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		cancel:       cancel,
		list:         list,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID      string `json:"service_id" binding:"required"`
	ProfessionalID string `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

// Create answers 201 when the remote store accepted the booking and 202
// when it was only kept on this device.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:       middleware.ClientID(c),
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if out.Sync == ucAppointment.SyncPendingSync {
		status = http.StatusAccepted
	}
	c.JSON(status, out)
}

// ======================================================
// LIST
// ======================================================
func (h *AppointmentHandler) List(c *gin.Context) {
	list := h.list.Execute(c.Request.Context(), middleware.ClientID(c))
	httpresp.List(c, dto.FromAppointments(list))
}

// ======================================================
// CANCEL
// ======================================================
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ok, err := h.cancel.Execute(c.Request.Context(), middleware.ClientID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": ok})
}

// ======================================================
// AVAILABILITY
// ======================================================
func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	professionalID := c.Query("professional_id")
	if date == "" || professionalID == "" {
		httperr.BadRequest(c, "missing_params", "Informe a data e o profissional.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProfessionalID: professionalID,
		ClientID:       middleware.ClientID(c),
		Date:           date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, slots)
}
