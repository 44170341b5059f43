package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/gateway/gatewaytest"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestRefreshSkipsWithoutSession(t *testing.T) {
	env := gatewaytest.NewEnv()
	p := NewAppointmentPoller(env.Gateway, env.Mirror, zerolog.Nop())

	assert.False(t, p.Refresh(context.Background()))
	assert.Equal(t, 0, env.Store.Calls("select", gateway.TableAppointments))
}

func TestRefreshMirrorsClientAppointments(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.SetUser(ctx, models.User{ID: "c1"}))
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "r1", "client_id": "c1", "service_id": "svc-corte", "professional_id": "pro-joao",
		"date": "2026-03-10", "time": "10:30", "status": "confirmed",
	})

	p := NewAppointmentPoller(env.Gateway, env.Mirror, zerolog.Nop())
	require.True(t, p.Refresh(ctx))

	mirrored := env.Mirror.Appointments(ctx, "c1")
	require.Len(t, mirrored, 1)
	assert.Equal(t, "r1", mirrored[0].ID)
	assert.Equal(t, "Corte", mirrored[0].Service.Name)
}

func TestRefreshCoversEverySignedInClient(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.SetUser(ctx, models.User{ID: "c1"}))
	require.NoError(t, env.Mirror.SetUser(ctx, models.User{ID: "c2"}))
	env.Store.Seed(gateway.TableAppointments,
		gateway.Row{"id": "r1", "client_id": "c1", "professional_id": "pro-joao", "date": "2026-03-10", "time": "10:30", "status": "confirmed"},
		gateway.Row{"id": "r2", "client_id": "c2", "professional_id": "pro-lia", "date": "2026-03-10", "time": "10:30", "status": "pending"},
	)

	p := NewAppointmentPoller(env.Gateway, env.Mirror, zerolog.Nop())
	require.True(t, p.Refresh(ctx))

	require.Len(t, env.Mirror.Appointments(ctx, "c1"), 1)
	assert.Equal(t, "r1", env.Mirror.Appointments(ctx, "c1")[0].ID)
	require.Len(t, env.Mirror.Appointments(ctx, "c2"), 1)
	assert.Equal(t, "r2", env.Mirror.Appointments(ctx, "c2")[0].ID)
}

func TestRealtimeChangeTriggersRefresh(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	require.NoError(t, env.Mirror.SetUser(ctx, models.User{ID: "c1"}))

	p := NewAppointmentPoller(env.Gateway, env.Mirror, zerolog.Nop())
	stop, err := p.Start("@every 1h", env.Hub)
	require.NoError(t, err)
	defer stop()

	env.Hub.Publish(hub.Change{Table: gateway.TableAppointments, EventType: "INSERT"})

	assert.Eventually(t, func() bool {
		return env.Store.Calls("select", gateway.TableAppointments) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	env := gatewaytest.NewEnv()
	p := NewAppointmentPoller(env.Gateway, env.Mirror, zerolog.Nop())

	_, err := p.Start("every now and then", nil)
	assert.Error(t, err)
}
