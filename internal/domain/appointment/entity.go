package appointment

import (
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment) error {
	if err := CanCancel(NormalizeStatus(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	return nil
}

// ConflictKind tells which uniqueness rule a slot would break.
type ConflictKind string

const (
	NoConflict           ConflictKind = ""
	ProfessionalConflict ConflictKind = "professional"
	ClientConflict       ConflictKind = "client"
)

// FindConflict checks a (professional, client, time) target against the
// same-day appointments. Canceled rows never block. The professional rule
// is checked first: another client holding the slot wins over self-conflict.
func FindConflict(
	sameDay []models.Appointment,
	professionalID string,
	clientID string,
	hm string,
) ConflictKind {
	for _, ap := range sameDay {
		if !NormalizeStatus(ap.Status).IsActive() || ap.Time != hm {
			continue
		}
		if ap.ProfessionalID == professionalID {
			return ProfessionalConflict
		}
	}

	for _, ap := range sameDay {
		if !NormalizeStatus(ap.Status).IsActive() || ap.Time != hm {
			continue
		}
		if clientID != "" && ap.ClientID == clientID {
			return ClientConflict
		}
	}

	return NoConflict
}

// ActiveOnly drops canceled appointments.
func ActiveOnly(in []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, 0, len(in))
	for _, ap := range in {
		if NormalizeStatus(ap.Status).IsActive() {
			out = append(out, ap)
		}
	}
	return out
}
