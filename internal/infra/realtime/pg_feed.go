package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

// Channel is the NOTIFY channel the table triggers publish on.
const Channel = "table_changes"

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// PGFeed turns Postgres NOTIFY payloads into hub changes. It holds one
// dedicated connection and reconnects with backoff when it drops.
type PGFeed struct {
	dsn string
	log zerolog.Logger
}

func NewPGFeed(dsn string, log zerolog.Logger) *PGFeed {
	return &PGFeed{
		dsn: dsn,
		log: log.With().Str("component", "realtime").Logger(),
	}
}

type payload struct {
	Table     string         `json:"table"`
	EventType string         `json:"eventType"`
	New       map[string]any `json:"new"`
	Old       map[string]any `json:"old"`
}

// Subscribe starts listening. The first connection is made synchronously so
// a wrong DSN fails here; later drops are retried in the background.
func (f *PGFeed) Subscribe(ctx context.Context, tables ...string) (<-chan hub.Change, error) {
	conn, err := f.listen(ctx)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(tables))
	for _, t := range tables {
		want[t] = true
	}

	out := make(chan hub.Change, 64)
	go f.run(ctx, conn, want, out)
	return out, nil
}

func (f *PGFeed) listen(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: realtime connect: %v", gateway.ErrUnavailable, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("%w: listen: %v", gateway.ErrUnavailable, err)
	}
	f.log.Info().Str("channel", Channel).Msg("realtime connected")
	return conn, nil
}

func (f *PGFeed) run(ctx context.Context, conn *pgx.Conn, want map[string]bool, out chan<- hub.Change) {
	defer close(out)

	backoff := minBackoff
	for {
		if conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			c, err := f.listen(ctx)
			if err != nil {
				f.log.Warn().Err(err).Dur("retry_in", backoff).Msg("realtime reconnect failed")
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			conn = c
			backoff = minBackoff
		}

		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			_ = conn.Close(context.Background())
			conn = nil
			if ctx.Err() != nil {
				return
			}
			f.log.Warn().Err(err).Msg("realtime connection lost")
			continue
		}

		ch, ok := decode(n.Payload)
		if !ok {
			f.log.Warn().Str("payload", n.Payload).Msg("unreadable change payload")
			continue
		}
		if len(want) > 0 && !want[ch.Table] {
			continue
		}

		select {
		case out <- ch:
		case <-ctx.Done():
			_ = conn.Close(context.Background())
			return
		}
	}
}

func decode(raw string) (hub.Change, bool) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Table == "" {
		return hub.Change{}, false
	}
	return hub.Change{
		Table:     p.Table,
		EventType: p.EventType,
		New:       p.New,
		Old:       p.Old,
		Source:    hub.SourceRemote,
	}, true
}

// Compile-time check
var _ gateway.Feed = (*PGFeed)(nil)
