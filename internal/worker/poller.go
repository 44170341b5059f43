package worker

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Source lists a client's appointments, refreshing the mirror as a side
// effect.
type Source interface {
	AppointmentsForClient(ctx context.Context, clientID string) []models.Appointment
	Config(ctx context.Context) *models.ShopConfig
}

// Sessions lists the clients with mirrored state and their sessions.
type Sessions interface {
	Clients(ctx context.Context) []string
	User(ctx context.Context, clientID string) (*models.User, bool)
}

// AppointmentPoller keeps the mirror fresh for every signed-in client when
// the realtime feed is down or lossy. Realtime appointment changes also
// trigger a refresh.
type AppointmentPoller struct {
	source   Source
	sessions Sessions
	log     zerolog.Logger

	cron    *cron.Cron
	timeout time.Duration

	// running guards against overlapping refreshes.
	running sync.Mutex
}

func NewAppointmentPoller(source Source, sessions Sessions, log zerolog.Logger) *AppointmentPoller {
	return &AppointmentPoller{
		source:   source,
		sessions: sessions,
		log:     log.With().Str("worker", "appointment_poller").Logger(),
		cron:    cron.New(),
		timeout: 10 * time.Second,
	}
}

// Start schedules Refresh on spec (cron syntax or "@every 30s") and
// subscribes to appointment and config changes on h.
func (p *AppointmentPoller) Start(spec string, h *hub.Hub) (func(), error) {
	if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
		return nil, err
	}
	p.cron.Start()

	unsubscribe := func() {}
	if h != nil {
		stopAppts := h.SubscribeTable(gateway.TableAppointments, func(hub.Change) { go p.tick() })
		stopConfig := h.SubscribeTable(gateway.TableConfig, func(hub.Change) { go p.tick() })
		unsubscribe = func() {
			stopAppts()
			stopConfig()
		}
	}

	p.log.Info().Str("schedule", spec).Msg("poller started")

	return func() {
		unsubscribe()
		<-p.cron.Stop().Done()
		p.log.Info().Msg("poller stopped")
	}, nil
}

func (p *AppointmentPoller) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	p.Refresh(ctx)
}

// Refresh reloads the shop config and the appointments of each signed-in
// client. It reports false when skipped: nobody signed in or a refresh
// already in flight.
func (p *AppointmentPoller) Refresh(ctx context.Context) bool {
	if !p.running.TryLock() {
		return false
	}
	defer p.running.Unlock()

	p.source.Config(ctx)

	refreshed := 0
	for _, id := range p.sessions.Clients(ctx) {
		if ctx.Err() != nil {
			break
		}
		if _, ok := p.sessions.User(ctx, id); !ok {
			continue
		}

		list := p.source.AppointmentsForClient(ctx, id)
		p.log.Debug().Str("client_id", id).Int("appointments", len(list)).Msg("refreshed")
		refreshed++
	}
	return refreshed > 0
}
