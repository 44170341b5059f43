package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/gateway/gatewaytest"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Monday 2026-03-09 10:00 in the shop timezone.
func fixedClock(h, m int) timezone.Clock {
	loc := timezone.Location(timezone.DefaultTimezone)
	return func() time.Time { return time.Date(2026, 3, 9, h, m, 0, 0, loc) }
}

type fakeReminders struct {
	clients   []string
	scheduled []string
	canceled  []string
}

func (f *fakeReminders) ScheduleReminder(clientID, date, hm, label string) bool {
	f.clients = append(f.clients, clientID)
	f.scheduled = append(f.scheduled, date+" "+hm+" "+label)
	return true
}

func (f *fakeReminders) CancelReminder(clientID, date, hm string) {
	f.canceled = append(f.canceled, clientID+" "+date+" "+hm)
}

func newCreate(env *gatewaytest.Env, clock timezone.Clock, rem *fakeReminders) *CreateAppointment {
	var reminders domain.Reminders
	if rem != nil {
		reminders = rem
	}
	return NewCreateAppointment(env.Gateway, env.Gateway, env.Mirror, reminders, nil, nil, zerolog.Nop(), clock)
}

func booking(client string) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientID:       client,
		ServiceID:      "svc-corte",
		ProfessionalID: "pro-joao",
		Date:           "2026-03-10",
		Time:           "10:30",
	}
}

func TestCreateConfirmed(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	rem := &fakeReminders{}

	var events []hub.Event
	env.Hub.Subscribe(func(ev hub.Event) { events = append(events, ev) })

	out, err := newCreate(env, fixedClock(10, 0), rem).Execute(ctx, booking("c1"))
	require.NoError(t, err)

	assert.Equal(t, SyncConfirmed, out.Sync)
	assert.Empty(t, out.Warning)
	assert.False(t, out.Appointment.IsLocal())
	assert.Equal(t, "pending", out.Appointment.Status)
	assert.Equal(t, 45.0, out.Appointment.TotalPrice)
	assert.Equal(t, "Corte", out.Appointment.Service.Name)
	assert.Equal(t, "João", out.Appointment.Professional.Name)

	mirrored := env.Mirror.Appointments(ctx, "c1")
	require.NotEmpty(t, mirrored)
	assert.Equal(t, out.Appointment.ID, mirrored[0].ID)

	assert.NotEmpty(t, events, "hub fired")
	assert.Equal(t, []string{"2026-03-10 10:30 Corte"}, rem.scheduled)
	assert.Equal(t, []string{"c1"}, rem.clients)
}

func TestCreateNormalizesTime(t *testing.T) {
	env := gatewaytest.NewEnv()

	in := booking("c1")
	in.Time = "9:45"
	out, err := newCreate(env, fixedClock(8, 0), nil).Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "09:45", out.Appointment.Time)
}

func TestCreateSlotTakenNeverInserts(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "a1", "professional_id": "pro-joao", "client_id": "someone",
		"date": "2026-03-10", "time": "10:30", "status": "confirmed",
	})

	_, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("c1"))

	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	assert.Equal(t, 0, env.Store.Calls("insert", gateway.TableAppointments))
}

func TestCreateClientBusy(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "a1", "professional_id": "pro-lia", "client_id": "c1",
		"date": "2026-03-10", "time": "10:30", "status": "pending",
	})

	_, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("c1"))

	assert.True(t, httperr.IsBusiness(err, "client_busy"))
	assert.Equal(t, 0, env.Store.Calls("insert", gateway.TableAppointments))
}

func TestCreateCanceledSlotIsFree(t *testing.T) {
	env := gatewaytest.NewEnv()
	env.Store.Seed(gateway.TableAppointments, gateway.Row{
		"id": "a1", "professional_id": "pro-joao", "client_id": "c2",
		"date": "2026-03-10", "time": "10:30", "status": "cancelled",
	})

	out, err := newCreate(env, fixedClock(10, 0), nil).Execute(context.Background(), booking("c1"))
	require.NoError(t, err)
	assert.Equal(t, SyncConfirmed, out.Sync)
}

func TestCreateRemoteRaceIsSlotTaken(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()

	// another client lands the same slot between re-check and insert
	env.Store.OnInsert(func(table string) {
		env.Store.Seed(gateway.TableAppointments, gateway.Row{
			"id": "winner", "professional_id": "pro-joao", "client_id": "c2",
			"date": "2026-03-10", "time": "10:30", "status": "pending",
		})
	})

	_, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("c1"))

	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	assert.Empty(t, env.Mirror.Appointments(ctx, "c1"), "no offline record for a lost race")
}

func TestCreateRemoteRaceOnOwnSlotIsClientBusy(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()

	// the same client books another professional from a second device
	env.Store.OnInsert(func(table string) {
		env.Store.Seed(gateway.TableAppointments, gateway.Row{
			"id": "other-device", "professional_id": "pro-lia", "client_id": "c1",
			"date": "2026-03-10", "time": "10:30", "status": "pending",
		})
	})

	_, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("c1"))

	assert.True(t, httperr.IsBusiness(err, "client_busy"), "got %v", err)
	assert.Empty(t, env.Mirror.Appointments(ctx, "c1"))
}

func TestCreateOfflineSavesPendingSync(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()

	// warm the mirror the way a session would, then lose the connection
	env.Gateway.Config(ctx)
	env.Gateway.Services(ctx)
	env.Gateway.Professionals(ctx)
	env.Store.Offline()

	var events int
	env.Hub.Subscribe(func(hub.Event) { events++ })

	out, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("c1"))
	require.NoError(t, err)

	assert.Equal(t, SyncPendingSync, out.Sync)
	assert.Equal(t, OfflineWarning, out.Warning)
	assert.True(t, strings.HasPrefix(out.Appointment.ID, "local_appt_"))
	assert.Equal(t, "pending", out.Appointment.Status)
	assert.Equal(t, "c1", out.Appointment.ClientID)

	mirrored := env.Mirror.Appointments(ctx, "c1")
	require.Len(t, mirrored, 1)
	assert.Equal(t, out.Appointment.ID, mirrored[0].ID)
	assert.Equal(t, 1, events)
}

func TestCreateOfflineIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()
	env.Gateway.Config(ctx)
	env.Gateway.Services(ctx)
	env.Gateway.Professionals(ctx)
	env.Store.Offline()

	uc := newCreate(env, fixedClock(10, 0), nil)

	first, err := uc.Execute(ctx, booking("c1"))
	require.NoError(t, err)

	in := booking("c1")
	in.Time = "11:15"
	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.Appointment.ID, second.Appointment.ID)

	mirrored := env.Mirror.Appointments(ctx, "c1")
	require.Len(t, mirrored, 2)
	assert.Equal(t, second.Appointment.ID, mirrored[0].ID)
	assert.Equal(t, first.Appointment.ID, mirrored[1].ID)
}

func TestCreateLocalUserNeverTouchesRemoteWrite(t *testing.T) {
	ctx := context.Background()
	env := gatewaytest.NewEnv()

	out, err := newCreate(env, fixedClock(10, 0), nil).Execute(ctx, booking("local_123"))
	require.NoError(t, err)

	assert.Equal(t, SyncPendingSync, out.Sync)
	assert.Empty(t, out.Warning)
	assert.Equal(t, 0, env.Store.Calls("insert", gateway.TableAppointments))
}

func TestCreateRejectionsHappenBeforeAppointmentFetch(t *testing.T) {
	closed := false

	cases := []struct {
		name  string
		clock timezone.Clock
		setup func(env *gatewaytest.Env)
		in    func(in CreateAppointmentInput) CreateAppointmentInput
		code  string
	}{
		{
			name:  "manual close",
			clock: fixedClock(10, 0),
			setup: func(env *gatewaytest.Env) {
				_, _ = env.Store.Update(context.Background(), gateway.TableConfig, nil, gateway.Row{"is_open": closed})
			},
			code: "shop_closed",
		},
		{
			name:  "sunday",
			clock: fixedClock(10, 0),
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Date = "2026-03-15"
				return in
			},
			code: "closed_on_date",
		},
		{
			name:  "evening after hours",
			clock: fixedClock(20, 0),
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Date = "2026-03-09"
				in.Time = "20:30"
				return in
			},
			code: "outside_business_hours",
		},
		{
			name:  "inside the buffer",
			clock: fixedClock(10, 20),
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Date = "2026-03-09"
				in.Time = "10:30"
				return in
			},
			code: "slot_in_past",
		},
		{
			name:  "off the slot grid",
			clock: fixedClock(10, 0),
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Time = "10:07"
				return in
			},
			code: "slot_not_offered",
		},
		{
			name:  "sunday without any config",
			clock: fixedClock(10, 0),
			setup: func(env *gatewaytest.Env) {
				env.Store.Offline()
			},
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Date = "2026-03-15"
				return in
			},
			code: "closed_on_date",
		},
		{
			name:  "garbage time",
			clock: fixedClock(10, 0),
			in: func(in CreateAppointmentInput) CreateAppointmentInput {
				in.Time = "25:99"
				return in
			},
			code: "invalid_date_or_time",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := gatewaytest.NewEnv()
			if tc.setup != nil {
				tc.setup(env)
			}
			in := booking("c1")
			if tc.in != nil {
				in = tc.in(in)
			}

			_, err := newCreate(env, tc.clock, nil).Execute(context.Background(), in)

			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
			assert.Equal(t, 0, env.Store.Calls("select", gateway.TableAppointments))
			assert.Equal(t, 0, env.Store.Calls("insert", gateway.TableAppointments))
		})
	}
}
