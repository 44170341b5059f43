package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ReminderLead is how long before the slot a reminder fires.
const ReminderLead = 30 * time.Minute

const (
	reminderTitle = "Lembrete de Agendamento ✂️"
	reminderBody  = "Seu horário para \"%s\" começa em 30 minutos. Estamos te esperando!"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Preferences holds each client's enabled flag and contact.
type Preferences interface {
	NotificationsEnabled(ctx context.Context, clientID string) bool
	SetNotificationsEnabled(ctx context.Context, clientID string, enabled bool) error
	User(ctx context.Context, clientID string) (*models.User, bool)
}

// reminderKey identifies one armed reminder.
type reminderKey struct {
	client string
	date   string
	hm     string
}

func (k reminderKey) String() string {
	return k.client + " " + k.date + " " + k.hm
}

type Service struct {
	prefs     Preferences
	deliverer Deliverer
	now       timezone.Clock
	log       zerolog.Logger

	mu     sync.Mutex
	timers map[reminderKey]*time.Timer
}

func NewService(prefs Preferences, deliverer Deliverer, now timezone.Clock, log zerolog.Logger) *Service {
	return &Service{
		prefs:     prefs,
		deliverer: deliverer,
		now:       now,
		log:       log.With().Str("component", "notification").Logger(),
		timers:    make(map[reminderKey]*time.Timer),
	}
}

// RequestPermission enables notifications for clientID. Without a
// deliverer the answer is denied; without a session nothing is decided.
func (s *Service) RequestPermission(ctx context.Context, clientID string) (Permission, error) {
	if s.deliverer == nil {
		return PermissionDenied, nil
	}

	user, ok := s.prefs.User(ctx, clientID)
	if !ok || user.WhatsApp == "" {
		return PermissionDefault, nil
	}

	if err := s.prefs.SetNotificationsEnabled(ctx, clientID, true); err != nil {
		return PermissionDefault, fmt.Errorf("enable notifications: %w", err)
	}
	return PermissionGranted, nil
}

// Disable turns notifications off for clientID and drops their pending
// reminders.
func (s *Service) Disable(ctx context.Context, clientID string) error {
	if err := s.prefs.SetNotificationsEnabled(ctx, clientID, false); err != nil {
		return fmt.Errorf("disable notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		if key.client == clientID {
			t.Stop()
			delete(s.timers, key)
		}
	}
	return nil
}

func (s *Service) Enabled(ctx context.Context, clientID string) bool {
	return s.deliverer != nil && s.prefs.NotificationsEnabled(ctx, clientID)
}

// Send delivers to clientID immediately. It is a no-op while disabled.
func (s *Service) Send(ctx context.Context, clientID, title, body string) error {
	if !s.Enabled(ctx, clientID) {
		return nil
	}

	user, ok := s.prefs.User(ctx, clientID)
	if !ok || user.WhatsApp == "" {
		return nil
	}

	return s.deliverer.Deliver(ctx, user.WhatsApp, title, body)
}

// ScheduleReminder arms a reminder for clientID ReminderLead before the
// slot at date and hm. It reports false when disabled, unparsable or
// already too late. Scheduling the same client and slot twice keeps only
// the latest.
func (s *Service) ScheduleReminder(clientID, date, hm, label string) bool {
	ctx := context.Background()
	if !s.Enabled(ctx, clientID) {
		return false
	}

	now := s.now()
	start, err := timezone.ParseDateTime(date, hm, now.Location())
	if err != nil {
		return false
	}

	delay := start.Add(-ReminderLead).Sub(now)
	if delay <= 0 {
		return false
	}

	key := reminderKey{client: clientID, date: date, hm: hm}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[key] == timer {
			delete(s.timers, key)
		}
		s.mu.Unlock()

		if err := s.Send(context.Background(), clientID, reminderTitle, fmt.Sprintf(reminderBody, label)); err != nil {
			s.log.Error().Err(err).Str("reminder", key.String()).Msg("reminder delivery failed")
		}
	})
	s.timers[key] = timer

	s.log.Debug().Str("reminder", key.String()).Dur("in", delay).Msg("reminder scheduled")
	return true
}

func (s *Service) CancelReminder(clientID, date, hm string) {
	key := reminderKey{client: clientID, date: date, hm: hm}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Pending returns how many reminders are armed.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close stops every pending reminder.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

var _ domain.Reminders = (*Service)(nil)
