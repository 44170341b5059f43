package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Gateway is the remote side of the booking flow. Fetches never fail: they
// fall back to the mirror and an empty result. Writes surface errors.
type Gateway interface {
	// -------- Config --------
	Config(ctx context.Context) *models.ShopConfig

	// -------- Appointment (reads) --------
	AppointmentsForDate(
		ctx context.Context,
		date string,
	) []models.Appointment

	AppointmentsForClient(
		ctx context.Context,
		clientID string,
	) []models.Appointment

	// AppointmentByID reads one row straight from the remote store.
	AppointmentByID(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	// -------- Appointment (writes) --------
	InsertAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus only touches an open row owned by clientID.
	UpdateAppointmentStatus(
		ctx context.Context,
		clientID string,
		id string,
		status Status,
	) error
}

// Mirror is the device-local copy of each client's appointments.
type Mirror interface {
	Appointments(ctx context.Context, clientID string) []models.Appointment

	PrependAppointment(
		ctx context.Context,
		ap models.Appointment,
	) error

	SetAppointmentStatus(
		ctx context.Context,
		clientID string,
		id string,
		status string,
	) (bool, error)
}

// Catalog resolves the snapshots embedded in a new appointment.
type Catalog interface {
	Services(ctx context.Context) []models.Service
	Professionals(ctx context.Context) []models.Professional
}

// Reminders schedules the "30 minutes before" notification for a booking.
type Reminders interface {
	ScheduleReminder(clientID, date, hm, label string) bool
	CancelReminder(clientID, date, hm string)
}
