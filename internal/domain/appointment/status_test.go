package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":    StatusPending,
		"confirmed":  StatusConfirmed,
		"canceled":   StatusCanceled,
		"cancelled":  StatusCanceled,
		" Canceled ": StatusCanceled,
		"completed":  StatusCompleted,
		"":           StatusPending,
		"whatever":   StatusPending,
	}

	for raw, want := range cases {
		assert.Equal(t, want, NormalizeStatus(raw), "raw=%q", raw)
	}
}

func TestTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCanceled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCompleted))
	assert.True(t, CanTransition(StatusConfirmed, StatusCanceled))

	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusCanceled, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusCanceled))
}

func TestCancelTerminalIsRejected(t *testing.T) {
	for _, st := range []string{"canceled", "cancelled", "completed"} {
		err := Cancel(&models.Appointment{Status: st})
		assert.True(t, httperr.IsBusiness(err, "invalid_state"), st)
	}
}

func TestCancelSetsCanonicalStatus(t *testing.T) {
	ap := &models.Appointment{Status: "confirmed"}

	assert.NoError(t, Cancel(ap))
	assert.Equal(t, "canceled", ap.Status)
}
