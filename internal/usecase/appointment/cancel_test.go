package appointment

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/gateway/gatewaytest"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func newCancel(env *gatewaytest.Env, rem *fakeReminders) *CancelAppointment {
	return NewCancelAppointment(env.Gateway, env.Mirror, rem, nil, nil, zerolog.Nop())
}

func TestCancelLocalNeverCallsRemote(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.PrependAppointment(ctx, models.Appointment{
		ID: "local_appt_1", ClientID: "c1", Date: "2026-03-10", Time: "10:30", Status: "pending",
	}))
	rem := &fakeReminders{}

	ok, err := newCancel(env, rem).Execute(ctx, "c1", "local_appt_1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 0, env.Store.Calls("update", gateway.TableAppointments))
	assert.Equal(t, "canceled", env.Mirror.Appointments(ctx, "c1")[0].Status)
	assert.Equal(t, []string{"c1 2026-03-10 10:30"}, rem.canceled)
}

func TestCancelRemoteUpdatesBoth(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "r1", "client_id": "c1", "professional_id": "pro-joao",
		"date": "2026-03-10", "time": "10:30", "status": "confirmed",
	})
	env.Gateway.AppointmentsForClient(ctx, "c1")

	ok, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	rows := env.Store.Rows(gateway.TableAppointments)
	assert.Equal(t, "canceled", rows[0]["status"])
	assert.Equal(t, "canceled", env.Mirror.Appointments(ctx, "c1")[0].Status)
}

func TestCancelRemoteOfflineStillUpdatesMirror(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.PrependAppointment(ctx, models.Appointment{
		ID: "r1", ClientID: "c1", Status: "pending",
	}))
	env.Store.Offline()

	ok, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, env.Store.Calls("update", gateway.TableAppointments))
	assert.Equal(t, "canceled", env.Mirror.Appointments(ctx, "c1")[0].Status)
}

func TestCancelTerminalIsRejected(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.PrependAppointment(ctx, models.Appointment{
		ID: "r1", ClientID: "c1", Status: "completed",
	}))

	_, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r1")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Equal(t, 0, env.Store.Calls("update", gateway.TableAppointments))
}

func TestCancelUnknownOrForeign(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.PrependAppointment(ctx, models.Appointment{
		ID: "local_appt_2", ClientID: "someone-else", Status: "pending",
	}))
	uc := newCancel(env, &fakeReminders{})

	_, err := uc.Execute(ctx, "c1", "local_appt_2")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = uc.Execute(ctx, "c1", "local_appt_404")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = uc.Execute(ctx, "c1", "remote-404")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestCancelRemoteOfAnotherClientIsNotFound(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "r9", "client_id": "c2", "professional_id": "pro-joao",
		"date": "2026-03-10", "time": "10:30", "status": "confirmed",
	})

	_, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r9")

	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"), "got %v", err)
	assert.Equal(t, 0, env.Store.Calls("update", gateway.TableAppointments))
	assert.Equal(t, "confirmed", env.Store.Rows(gateway.TableAppointments)[0]["status"])
}

func TestCancelRemoteTerminalIsRejectedWithoutMirrorCopy(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "r7", "client_id": "c1", "professional_id": "pro-joao",
		"date": "2026-03-10", "time": "10:30", "status": "completed",
	})

	_, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r7")

	assert.True(t, httperr.IsBusiness(err, "invalid_state"), "got %v", err)
	assert.Equal(t, 0, env.Store.Calls("update", gateway.TableAppointments))
	assert.Equal(t, "completed", env.Store.Rows(gateway.TableAppointments)[0]["status"])
}

func TestCancelRemoteStaleMirrorDefersToRemoteState(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.PrependAppointment(ctx, models.Appointment{
		ID: "r5", ClientID: "c1", Date: "2026-03-10", Time: "10:30", Status: "pending",
	}))
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "r5", "client_id": "c1", "professional_id": "pro-joao",
		"date": "2026-03-10", "time": "10:30", "status": "completed",
	})

	_, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r5")

	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Equal(t, "pending", env.Mirror.Appointments(ctx, "c1")[0].Status)
}

func TestCancelRemoteOfflineWithoutMirrorCopyFails(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Offline()

	ok, err := newCancel(env, &fakeReminders{}).Execute(ctx, "c1", "r1")

	assert.False(t, ok)
	assert.True(t, gateway.IsOffline(err))
	assert.Equal(t, 0, env.Store.Calls("update", gateway.TableAppointments))
}
