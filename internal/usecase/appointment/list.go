package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListClientAppointments struct {
	gw domain.Gateway
}

func NewListClientAppointments(gw domain.Gateway) *ListClientAppointments {
	return &ListClientAppointments{gw: gw}
}

// Execute returns the client's appointments, offline records first, then
// the remote ones by date and time.
func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	clientID string,
) []models.Appointment {
	return uc.gw.AppointmentsForClient(ctx, clientID)
}
