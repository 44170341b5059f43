package appointment

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CancelAppointment struct {
	gw        domain.Gateway
	mirror    domain.Mirror
	reminders domain.Reminders
	audit     *audit.Dispatcher
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

func NewCancelAppointment(
	gw domain.Gateway,
	mirror domain.Mirror,
	reminders domain.Reminders,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		gw:        gw,
		mirror:    mirror,
		reminders: reminders,
		audit:     audit,
		metrics:   m,
		log:       log.With().Str("usecase", "cancel_appointment").Logger(),
	}
}

// Execute cancels the client's appointment. Local records only change in
// the mirror. Remote ones are checked against the remote row first, then
// updated remotely when possible and always in the mirror, so the screen
// reflects the cancellation at once.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clientID string,
	appointmentID string,
) (bool, error) {

	cached, found := findAppointment(uc.mirror.Appointments(ctx, clientID), appointmentID)
	if found {
		if err := domain.Cancel(&cached); err != nil {
			return false, err
		}
	}

	scope := "local"
	if !models.IsLocalID(appointmentID) {
		scope = "remote"

		// --------------------------------------------------
		// Ownership and state come from the remote row
		// --------------------------------------------------
		remote, err := uc.gw.AppointmentByID(ctx, appointmentID)
		switch {
		case err == nil:
			if remote.ClientID != clientID {
				return false, httperr.ErrBusiness("appointment_not_found")
			}
			if err := domain.Cancel(remote); err != nil {
				return false, err
			}
		case errors.Is(err, gateway.ErrNotFound):
			return false, httperr.ErrBusiness("appointment_not_found")
		case !found || !gateway.IsOffline(err):
			return false, err
		}

		// the row can still move between the read and the scoped update
		err = uc.gw.UpdateAppointmentStatus(ctx, clientID, appointmentID, domain.StatusCanceled)
		switch {
		case errors.Is(err, gateway.ErrNotFound):
			return false, httperr.ErrBusiness("invalid_state")
		case err != nil && !gateway.IsOffline(err):
			return false, err
		case err != nil:
			scope = "mirror_only"
			uc.log.Warn().Err(err).Str("appointment_id", appointmentID).Msg("remote cancel failed, updating mirror only")
		}
	} else if !found {
		return false, httperr.ErrBusiness("appointment_not_found")
	}

	if _, err := uc.mirror.SetAppointmentStatus(ctx, clientID, appointmentID, string(domain.StatusCanceled)); err != nil {
		uc.log.Error().Err(err).Msg("mirror cancel failed")
		return false, err
	}

	if found && uc.reminders != nil {
		uc.reminders.CancelReminder(clientID, cached.Date, cached.Time)
	}

	uc.metrics.Cancellation(scope)
	uc.audit.Dispatch(audit.Event{
		ClientID: clientID,
		Action:   "appointment_canceled",
		Entity:   "appointment",
		EntityID: appointmentID,
		Metadata: map[string]string{"scope": scope},
	})

	return true, nil
}

func findAppointment(list []models.Appointment, id string) (models.Appointment, bool) {
	for _, ap := range list {
		if ap.ID == id {
			return ap, true
		}
	}
	return models.Appointment{}, false
}
