package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
)

func TestSelectFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.Seed(gateway.TableClients,
		gateway.Row{"id": "c1", "name": "Ana", "cuts": 3},
		gateway.Row{"id": "c2", "name": "Bruno", "cuts": 10},
		gateway.Row{"id": "c3", "name": "Caio", "cuts": 7},
	)

	rows, err := m.Select(ctx, gateway.TableClients, gateway.Query{
		Columns: []string{"id", "cuts"},
		Order:   []gateway.Order{{Column: "cuts", Desc: true}},
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c2", rows[0]["id"])
	assert.Equal(t, "c3", rows[1]["id"])
	assert.NotContains(t, rows[0], "name")

	rows, err = m.Select(ctx, gateway.TableClients, gateway.Query{
		Filters: []gateway.Filter{gateway.Neq("id", "c1"), gateway.Eq("name", "Caio")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c3", rows[0]["id"])
}

func TestInsertEnforcesActiveSlotUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	slot := gateway.Row{"professional_id": "p1", "date": "2026-03-10", "time": "10:00", "status": "pending"}

	first, err := m.Insert(ctx, gateway.TableAppointments, slot)
	require.NoError(t, err)
	assert.NotEmpty(t, first["id"])

	_, err = m.Insert(ctx, gateway.TableAppointments, slot)
	assert.ErrorIs(t, err, gateway.ErrConflict)
	assert.Equal(t, gateway.ConstraintProfessionalSlot, gateway.ConstraintOf(err))

	n, err := m.Update(ctx, gateway.TableAppointments,
		[]gateway.Filter{gateway.Eq("id", first["id"])},
		gateway.Row{"status": "cancelled"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = m.Insert(ctx, gateway.TableAppointments, slot)
	assert.NoError(t, err, "canceled rows free the slot")
}

func TestInsertEnforcesOneActiveBookingPerClientSlot(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	first := gateway.Row{"professional_id": "p1", "client_id": "c1", "date": "2026-03-10", "time": "10:30", "status": "pending"}
	_, err := m.Insert(ctx, gateway.TableAppointments, first)
	require.NoError(t, err)

	other := gateway.Row{"professional_id": "p2", "client_id": "c1", "date": "2026-03-10", "time": "10:30", "status": "pending"}
	_, err = m.Insert(ctx, gateway.TableAppointments, other)
	assert.ErrorIs(t, err, gateway.ErrConflict)
	assert.Equal(t, gateway.ConstraintClientSlot, gateway.ConstraintOf(err))

	other["client_id"] = "c2"
	_, err = m.Insert(ctx, gateway.TableAppointments, other)
	assert.NoError(t, err, "another client may take another professional")

	anonymous := gateway.Row{"professional_id": "p3", "date": "2026-03-10", "time": "10:30", "status": "pending"}
	_, err = m.Insert(ctx, gateway.TableAppointments, anonymous)
	require.NoError(t, err)
	anonymous["professional_id"] = "p4"
	_, err = m.Insert(ctx, gateway.TableAppointments, anonymous)
	assert.NoError(t, err, "rows without a client never collide on the client index")
}

func TestFeedDeliversSubscribedTables(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemoryStore()
	changes, err := m.Subscribe(ctx, gateway.TableConfig)
	require.NoError(t, err)

	_, err = m.Insert(ctx, gateway.TableServices, gateway.Row{"name": "Corte"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, gateway.TableConfig, gateway.Row{"opening_hours": "09:00-18:00"})
	require.NoError(t, err)

	select {
	case ch := <-changes:
		assert.Equal(t, gateway.TableConfig, ch.Table)
		assert.Equal(t, "INSERT", ch.EventType)
		assert.Equal(t, "09:00-18:00", ch.New["opening_hours"])
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Select(ctx, gateway.TableServices, gateway.Query{})
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}
