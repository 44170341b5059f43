package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchWritesAuditLine(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(New(zerolog.New(&buf)), zerolog.Nop())

	d.Dispatch(Event{
		ClientID: "c1",
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: "a1",
		Metadata: map[string]string{"sync": "confirmed"},
	})
	d.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, true, entry["audit"])
	assert.Equal(t, "appointment_created", entry["action"])
	assert.Equal(t, "a1", entry["entity_id"])
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
