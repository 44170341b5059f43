package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/shop"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID       string
	ServiceID      string
	ProfessionalID string
	Date           string
	Time           string
}

// SyncState tells whether the booking reached the remote store.
type SyncState string

const (
	SyncConfirmed   SyncState = "confirmed"
	SyncPendingSync SyncState = "pending_sync"
)

const OfflineWarning = "Atenção: Não foi possível conectar ao servidor. " +
	"Seu agendamento será salvo no celular e sincronizado depois. " +
	"Mostre esta tela ao chegar na barbearia."

type Outcome struct {
	Appointment models.Appointment `json:"appointment"`
	Sync        SyncState          `json:"sync"`
	Warning     string             `json:"warning,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	gw        domain.Gateway
	catalog   domain.Catalog
	mirror    domain.Mirror
	reminders domain.Reminders
	audit     *audit.Dispatcher
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       timezone.Clock
}

func NewCreateAppointment(
	gw domain.Gateway,
	catalog domain.Catalog,
	mirror domain.Mirror,
	reminders domain.Reminders,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
	now timezone.Clock,
) *CreateAppointment {
	return &CreateAppointment{
		gw:        gw,
		catalog:   catalog,
		mirror:    mirror,
		reminders: reminders,
		audit:     audit,
		metrics:   m,
		log:       log.With().Str("usecase", "create_appointment").Logger(),
		now:       now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*Outcome, error) {

	out, err := uc.execute(ctx, in)
	switch {
	case err == nil:
		uc.metrics.Booking(string(out.Sync))
	default:
		if be, ok := httperr.AsBusiness(err); ok {
			uc.metrics.Booking(be.Code)
		} else {
			uc.metrics.Booking("error")
		}
	}
	return out, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*Outcome, error) {

	now := uc.now()

	// --------------------------------------------------
	// 1️⃣ Data / hora no fuso da barbearia
	// --------------------------------------------------
	day, err := timezone.ParseDate(in.Date, now.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	start, err := timezone.ParseDateTime(in.Date, in.Time, now.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	in.Date = timezone.LocalDateKey(day)
	in.Time = timezone.FormatHM(start)

	// --------------------------------------------------
	// 2️⃣ Configuração da barbearia
	// --------------------------------------------------
	cfg := uc.gw.Config(ctx)

	if shop.IsManuallyClosed(cfg) {
		return nil, httperr.ErrBusiness("shop_closed")
	}
	if !shop.IsWorkDay(cfg, day) {
		return nil, httperr.ErrBusiness("closed_on_date")
	}
	if cfg != nil && !timezone.IsTimeInRange(in.Time, cfg.OpeningHours) {
		return nil, httperr.ErrBusiness("outside_business_hours")
	}
	if !domain.IsOfferedSlot(cfg, in.Time) {
		return nil, httperr.ErrBusiness("slot_not_offered")
	}
	if domain.IsPast(day, in.Time, now) {
		return nil, httperr.ErrBusiness("slot_in_past")
	}

	// --------------------------------------------------
	// 3️⃣ Serviço e profissional
	// --------------------------------------------------
	svc, ok := findService(uc.catalog.Services(ctx), in.ServiceID)
	if !ok {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	pro, ok := findProfessional(uc.catalog.Professionals(ctx), in.ProfessionalID)
	if !ok {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	// --------------------------------------------------
	// 4️⃣ Re-checagem autoritativa do dia
	// --------------------------------------------------
	sameDay := uc.gw.AppointmentsForDate(ctx, in.Date)
	switch domain.FindConflict(sameDay, pro.ID, in.ClientID, in.Time) {
	case domain.ProfessionalConflict:
		return nil, httperr.ErrBusiness("slot_taken")
	case domain.ClientConflict:
		return nil, httperr.ErrBusiness("client_busy")
	}

	ap := models.Appointment{
		Service:        svc,
		Professional:   pro,
		ServiceID:      svc.ID,
		ProfessionalID: pro.ID,
		ClientID:       in.ClientID,
		Date:           in.Date,
		Time:           in.Time,
		Status:         string(domain.InitialStatus()),
		TotalPrice:     svc.Price,
	}

	// --------------------------------------------------
	// 5️⃣ Gravação remota
	// --------------------------------------------------
	var warning string
	if !models.IsLocalID(in.ClientID) {
		stored, err := uc.gw.InsertAppointment(ctx, &ap)
		if err == nil {
			if err := uc.mirror.PrependAppointment(ctx, *stored); err != nil {
				uc.log.Warn().Err(err).Msg("mirror prepend failed")
			}
			uc.finish(*stored, SyncConfirmed)
			return &Outcome{Appointment: *stored, Sync: SyncConfirmed}, nil
		}

		// a unique index decided the race
		if errors.Is(err, gateway.ErrConflict) {
			if gateway.ConstraintOf(err) == gateway.ConstraintClientSlot {
				return nil, httperr.ErrBusiness("client_busy")
			}
			return nil, httperr.ErrBusiness("slot_taken")
		}

		uc.log.Warn().Err(err).Str("client_id", in.ClientID).Msg("remote insert failed, saving locally")
		warning = OfflineWarning
	}

	// --------------------------------------------------
	// 6️⃣ Fallback local
	// --------------------------------------------------
	ap.ID = models.NewLocalID("appt", now)
	if err := uc.mirror.PrependAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("save local appointment: %w", err)
	}

	uc.finish(ap, SyncPendingSync)
	return &Outcome{Appointment: ap, Sync: SyncPendingSync, Warning: warning}, nil
}

func (uc *CreateAppointment) finish(ap models.Appointment, sync SyncState) {
	if uc.reminders != nil {
		uc.reminders.ScheduleReminder(ap.ClientID, ap.Date, ap.Time, ap.Service.Name)
	}

	uc.audit.Dispatch(audit.Event{
		ClientID: ap.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"sync": string(sync)},
	})
}

func findService(list []models.Service, id string) (models.Service, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

func findProfessional(list []models.Professional, id string) (models.Professional, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return models.Professional{}, false
}
