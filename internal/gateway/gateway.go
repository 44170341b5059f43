package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/mirror"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// RankingSize is how many clients the loyalty ranking shows.
const RankingSize = 10

// Gateway reads and writes the remote store. Successful fetches are written
// through to the mirror; failed fetches are logged and answered from it.
type Gateway struct {
	store   Store
	mirror  *mirror.Store
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func New(
	store Store,
	m *mirror.Store,
	log zerolog.Logger,
	met *metrics.Metrics,
	breaker BreakerSettings,
) *Gateway {
	log = log.With().Str("component", "gateway").Logger()
	return &Gateway{
		store:   store,
		mirror:  m,
		breaker: newBreaker(breaker, log),
		log:     log,
		metrics: met,
	}
}

func (g *Gateway) selectRows(ctx context.Context, table string, q Query) ([]Row, error) {
	return guarded(g.breaker, func() ([]Row, error) {
		return g.store.Select(ctx, table, q)
	})
}

func (g *Gateway) fallback(entity string, err error) {
	g.metrics.Fallback(entity)
	g.log.Warn().Err(err).Str("entity", entity).Msg("remote fetch failed, using mirror")
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (g *Gateway) Services(ctx context.Context) []models.Service {
	rows, err := g.selectRows(ctx, TableServices, Query{
		Order: []Order{{Column: "name"}},
	})
	if err != nil {
		g.fallback(TableServices, err)
		cached, _ := mirror.Read[[]models.Service](ctx, g.mirror, mirror.KeyServices)
		return cached
	}

	out := make([]models.Service, 0, len(rows))
	for _, r := range rows {
		out = append(out, normalizeService(r))
	}

	if err := mirror.Write(ctx, g.mirror, mirror.KeyServices, out); err != nil {
		g.log.Warn().Err(err).Msg("mirror services")
	}
	return out
}

func (g *Gateway) Professionals(ctx context.Context) []models.Professional {
	rows, err := g.selectRows(ctx, TableProfessionals, Query{
		Order: []Order{{Column: "name"}},
	})
	if err != nil {
		g.fallback(TableProfessionals, err)
		cached, _ := mirror.Read[[]models.Professional](ctx, g.mirror, mirror.KeyProfessionals)
		return cached
	}

	out := make([]models.Professional, 0, len(rows))
	for _, r := range rows {
		out = append(out, normalizeProfessional(r))
	}

	if err := mirror.Write(ctx, g.mirror, mirror.KeyProfessionals, out); err != nil {
		g.log.Warn().Err(err).Msg("mirror professionals")
	}
	return out
}

// --------------------------------------------------
// Config
// --------------------------------------------------

// Config returns the singleton shop config, or nil when neither the remote
// store nor the mirror has one.
func (g *Gateway) Config(ctx context.Context) *models.ShopConfig {
	rows, err := g.selectRows(ctx, TableConfig, Query{Limit: 1})
	if err == nil && len(rows) == 0 {
		err = ErrNotFound
	}
	if err != nil {
		g.fallback(TableConfig, err)
		cached, ok := mirror.Read[*models.ShopConfig](ctx, g.mirror, mirror.KeyConfig)
		if !ok {
			return nil
		}
		return cached
	}

	cfg := normalizeConfig(rows[0])
	if err := mirror.Write(ctx, g.mirror, mirror.KeyConfig, cfg); err != nil {
		g.log.Warn().Err(err).Msg("mirror config")
	}
	return cfg
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

// catalogIndex resolves service and professional snapshots for appointment
// rows that were not joined by the store.
func (g *Gateway) catalogIndex(ctx context.Context) (map[string]models.Service, map[string]models.Professional) {
	services := map[string]models.Service{}
	for _, s := range g.Services(ctx) {
		services[s.ID] = s
	}
	professionals := map[string]models.Professional{}
	for _, p := range g.Professionals(ctx) {
		professionals[p.ID] = p
	}
	return services, professionals
}

// AppointmentsForClient returns the client's appointments ordered by date
// and time. Records created offline stay in front of the remote ones.
func (g *Gateway) AppointmentsForClient(ctx context.Context, clientID string) []models.Appointment {
	rows, err := g.selectRows(ctx, TableAppointments, Query{
		Filters: []Filter{Eq("client_id", clientID)},
		Order:   []Order{{Column: "date"}, {Column: "time"}},
	})
	if err != nil {
		g.fallback(TableAppointments, err)
		return g.mirror.Appointments(ctx, clientID)
	}

	services, professionals := g.catalogIndex(ctx)
	remote := make([]models.Appointment, 0, len(rows))
	for _, r := range rows {
		remote = append(remote, normalizeAppointment(r, services, professionals))
	}

	merged, err := g.mirror.MergeAppointments(ctx, clientID, remote)
	if err != nil {
		g.log.Warn().Err(err).Str("client_id", clientID).Msg("mirror appointments")
	}
	return merged
}

// AppointmentByID reads one row without any mirror fallback. A missing row
// is ErrNotFound.
func (g *Gateway) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	rows, err := g.selectRows(ctx, TableAppointments, Query{
		Filters: []Filter{Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("read appointment %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read appointment %s: %w", id, ErrNotFound)
	}

	ap := normalizeAppointment(rows[0], nil, nil)
	return &ap, nil
}

// AppointmentsForDate is the authoritative same-day list used by the
// booking re-check. Canceled rows are excluded under both spellings.
func (g *Gateway) AppointmentsForDate(ctx context.Context, date string) []models.Appointment {
	rows, err := g.selectRows(ctx, TableAppointments, Query{
		Columns: []string{"id", "time", "professional_id", "client_id", "status"},
		Filters: []Filter{
			Eq("date", date),
			Neq("status", string(domain.StatusCanceled)),
			Neq("status", "cancelled"),
		},
	})
	if err != nil {
		g.fallback("appointments_for_date", err)
		var out []models.Appointment
		for _, ap := range g.mirror.AllAppointments(ctx) {
			if ap.Date == date && domain.NormalizeStatus(ap.Status).IsActive() {
				out = append(out, ap)
			}
		}
		return out
	}

	out := make([]models.Appointment, 0, len(rows))
	for _, r := range rows {
		ap := normalizeAppointment(r, nil, nil)
		ap.Date = date
		out = append(out, ap)
	}
	return domain.ActiveOnly(out)
}

// InsertAppointment writes ap as a remote row and returns the stored record
// with its snapshots.
func (g *Gateway) InsertAppointment(ctx context.Context, ap *models.Appointment) (*models.Appointment, error) {
	row := Row{
		"service_id":      ap.ServiceID,
		"professional_id": ap.ProfessionalID,
		"client_id":       ap.ClientID,
		"date":            ap.Date,
		"time":            ap.Time,
		"status":          string(domain.NormalizeStatus(ap.Status)),
		"price":           ap.TotalPrice,
		"service":         ap.Service.Name,
		"professional":    ap.Professional.Name,
	}

	stored, err := guarded(g.breaker, func() (Row, error) {
		return g.store.Insert(ctx, TableAppointments, row)
	})
	g.metrics.Write(TableAppointments, err)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	services := map[string]models.Service{ap.ServiceID: ap.Service}
	professionals := map[string]models.Professional{ap.ProfessionalID: ap.Professional}
	out := normalizeAppointment(stored, services, professionals)
	return &out, nil
}

// UpdateAppointmentStatus changes the row only while it belongs to clientID
// and is still open. Anything else matches no row and is ErrNotFound.
func (g *Gateway) UpdateAppointmentStatus(ctx context.Context, clientID, id string, status domain.Status) error {
	n, err := guarded(g.breaker, func() (int64, error) {
		return g.store.Update(ctx, TableAppointments,
			[]Filter{
				Eq("id", id),
				Eq("client_id", clientID),
				Neq("status", string(domain.StatusCompleted)),
				Neq("status", string(domain.StatusCanceled)),
				Neq("status", "cancelled"),
			},
			Row{"status": string(status)},
		)
	})
	if err == nil && n == 0 {
		err = ErrNotFound
	}
	g.metrics.Write(TableAppointments, err)
	if err != nil {
		return fmt.Errorf("update appointment %s: %w", id, err)
	}
	return nil
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

// FindUserByPhone returns nil without error when nobody has that phone.
func (g *Gateway) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	rows, err := g.selectRows(ctx, TableClients, Query{
		Filters: []Filter{Eq("phone", phone)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	u := normalizeUser(rows[0], phone, "")
	return &u, nil
}

func (g *Gateway) CreateClient(ctx context.Context, name, whatsapp, birthday string) (*models.User, error) {
	row := Row{
		"name":   name,
		"phone":  whatsapp,
		"points": 0,
		"cuts":   0,
	}
	if birthday != "" {
		row["birthday"] = birthday
	}

	stored, err := guarded(g.breaker, func() (Row, error) {
		return g.store.Insert(ctx, TableClients, row)
	})
	g.metrics.Write(TableClients, err)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	u := normalizeUser(stored, whatsapp, name)
	return &u, nil
}

func (g *Gateway) UpdatePoints(ctx context.Context, clientID string, points int) error {
	n, err := guarded(g.breaker, func() (int64, error) {
		return g.store.Update(ctx, TableClients,
			[]Filter{Eq("id", clientID)},
			Row{"points": points},
		)
	})
	if err == nil && n == 0 {
		err = ErrNotFound
	}
	g.metrics.Write(TableClients, err)
	if err != nil {
		return fmt.Errorf("update points: %w", err)
	}
	return nil
}

// Ranking lists the top clients by cuts. It is not mirrored.
func (g *Gateway) Ranking(ctx context.Context) []models.RankingItem {
	rows, err := g.selectRows(ctx, TableClients, Query{
		Columns: []string{"id", "name", "cuts", "avatar"},
		Order:   []Order{{Column: "cuts", Desc: true}},
		Limit:   RankingSize,
	})
	if err != nil {
		g.metrics.Fallback("ranking")
		g.log.Warn().Err(err).Msg("ranking fetch failed")
		return []models.RankingItem{}
	}

	out := make([]models.RankingItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, normalizeRankingItem(r))
	}
	return out
}

// IsOffline reports whether err means the remote store could not be
// reached, as opposed to refusing the request.
func IsOffline(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrConflict) &&
		!errors.Is(err, ErrPermissionDenied) &&
		!errors.Is(err, ErrNotFound)
}

// Compile-time checks
var (
	_ domain.Gateway       = (*Gateway)(nil)
	_ domain.Catalog       = (*Gateway)(nil)
	_ clientdomain.Gateway = (*Gateway)(nil)
)
