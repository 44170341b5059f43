package appointment

import (
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// NormalizeStatus maps whatever the remote row carries onto the canonical enum.
// The admin panel has written both "canceled" and "cancelled" over time.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "confirmed":
		return StatusConfirmed
	case "canceled", "cancelled":
		return StatusCanceled
	case "completed":
		return StatusCompleted
	default:
		return StatusPending
	}
}

// IsActive reports whether the appointment still holds its slot.
func (s Status) IsActive() bool {
	return s != StatusCanceled
}

func (s Status) IsTerminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusCanceled},
}

// CanTransition encodes the lifecycle. Confirm/complete are driven by the
// admin panel; the client only ever cancels.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if !CanTransition(current, StatusCanceled) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
