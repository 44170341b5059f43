package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

func TestDecode(t *testing.T) {
	ch, ok := decode(`{"table":"appointments","eventType":"UPDATE","new":{"id":"a1","status":"confirmed"},"old":{"id":"a1","status":"pending"}}`)
	require.True(t, ok)

	assert.Equal(t, "appointments", ch.Table)
	assert.Equal(t, "UPDATE", ch.EventType)
	assert.Equal(t, "confirmed", ch.New["status"])
	assert.Equal(t, "pending", ch.Old["status"])
	assert.Equal(t, hub.SourceRemote, ch.Source)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, ok := decode("not json")
	assert.False(t, ok)

	_, ok = decode(`{"eventType":"INSERT"}`)
	assert.False(t, ok)
}
