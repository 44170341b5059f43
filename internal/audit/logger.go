package audit

import (
	"github.com/rs/zerolog"
)

// Logger writes audit entries as structured log lines with their own
// "audit" marker so they can be shipped separately.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Bool("audit", true).Logger()}
}

func (l *Logger) Log(
	clientID string,
	action string,
	entity string,
	entityID string,
	metadata any,
) error {

	ev := l.log.Info().
		Str("client_id", clientID).
		Str("action", action).
		Str("entity", entity).
		Str("entity_id", entityID)

	if metadata != nil {
		ev = ev.Interface("metadata", metadata)
	}

	ev.Msg("audit")
	return nil
}
