package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Key string

// Shop-wide keys.
const (
	KeyServices      Key = "services"
	KeyProfessionals Key = "professionals"
	KeyConfig        Key = "config"
	// KeyClients indexes the client ids that own per-client entries.
	KeyClients Key = "clients"
)

// Per-client keys. They are always scoped with ForClient.
const (
	KeyUser                 Key = "user"
	KeyAppointments         Key = "appointments"
	KeyNotificationsEnabled Key = "notifications_enabled"
	// KeyPhone maps a WhatsApp number to the client id using it.
	KeyPhone Key = "phone"
)

var knownKeys = map[string]bool{
	string(KeyServices):             true,
	string(KeyProfessionals):        true,
	string(KeyConfig):               true,
	string(KeyClients):              true,
	string(KeyUser):                 true,
	string(KeyAppointments):         true,
	string(KeyNotificationsEnabled): true,
	string(KeyPhone):                true,
}

// ForClient scopes key to one client, e.g. "user:c1".
func ForClient(key Key, id string) Key {
	return Key(string(key) + ":" + id)
}

// baseKey drops the client scope from key.
func baseKey(key Key) string {
	base, _, _ := strings.Cut(string(key), ":")
	return base
}

// Store is the last-known normalized copy of remote data, one blob per key.
// It never originates truth except for records created while offline.
type Store struct {
	backend Backend
	hub     *hub.Hub
	log     zerolog.Logger
	metrics *metrics.Metrics

	// writeMu makes compare-and-set of one blob atomic within the process.
	writeMu sync.Mutex
	// apptMu serializes read-modify-write of the appointments collections.
	apptMu sync.Mutex
	// indexMu serializes read-modify-write of KeyClients.
	indexMu sync.Mutex
}

func New(backend Backend, h *hub.Hub, log zerolog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		backend: backend,
		hub:     h,
		log:     log.With().Str("component", "mirror").Logger(),
		metrics: m,
	}
}

// Read decodes the blob under key. Missing or corrupt data is a miss.
func Read[T any](ctx context.Context, s *Store, key Key) (T, bool) {
	var zero T

	raw, err := s.backend.Get(ctx, string(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", string(key)).Msg("read failed")
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn().Err(err).Str("key", string(key)).Msg("corrupt entry, treating as miss")
		return zero, false
	}
	return v, true
}

// Write replaces the blob under key and notifies the hub when the stored
// bytes actually changed.
func Write[T any](ctx context.Context, s *Store, key Key, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.put(ctx, key, raw)
	return err
}

// Remove deletes key, notifying when something was there.
func (s *Store) Remove(ctx context.Context, key Key) error {
	s.writeMu.Lock()
	if _, err := s.backend.Get(ctx, string(key)); err != nil {
		s.writeMu.Unlock()
		return nil
	}
	err := s.backend.Delete(ctx, string(key))
	s.writeMu.Unlock()

	if err != nil {
		return err
	}
	s.hub.Notify(hub.SourceLocal)
	return nil
}

func (s *Store) put(ctx context.Context, key Key, raw []byte) (bool, error) {
	s.writeMu.Lock()
	old, err := s.backend.Get(ctx, string(key))
	if err == nil && bytes.Equal(old, raw) {
		s.writeMu.Unlock()
		s.metrics.MirrorWrite(baseKey(key), false)
		return false, nil
	}
	err = s.backend.Set(ctx, string(key), raw)
	s.writeMu.Unlock()

	if err != nil {
		return false, err
	}

	s.metrics.MirrorWrite(baseKey(key), true)
	s.hub.Notify(hub.SourceLocal)
	return true, nil
}

// Watch turns writes by other processes into storage events. It is a no-op
// for backends that are not shared.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil
	}

	keys, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for key := range keys {
			if !knownKeys[baseKey(Key(key))] {
				continue
			}
			s.log.Debug().Str("key", key).Msg("storage change from another process")
			s.hub.Notify(hub.SourceStorage)
		}
	}()
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// ===============================
// Client index
// ===============================

// Clients lists the ids that currently own mirrored entries.
func (s *Store) Clients(ctx context.Context) []string {
	ids, _ := Read[[]string](ctx, s, KeyClients)
	return ids
}

func (s *Store) track(ctx context.Context, id string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ids := s.Clients(ctx)
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return Write(ctx, s, KeyClients, append(ids, id))
}

func (s *Store) untrack(ctx context.Context, id string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ids := s.Clients(ctx)
	next := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(ids) {
		return nil
	}
	return Write(ctx, s, KeyClients, next)
}

// ===============================
// Appointments collections
// ===============================

// Appointments returns the client's mirrored appointments.
func (s *Store) Appointments(ctx context.Context, clientID string) []models.Appointment {
	list, _ := Read[[]models.Appointment](ctx, s, ForClient(KeyAppointments, clientID))
	return list
}

// AllAppointments concatenates every client's collection. The booking
// re-check uses it when the remote store is unreachable.
func (s *Store) AllAppointments(ctx context.Context) []models.Appointment {
	var out []models.Appointment
	for _, id := range s.Clients(ctx) {
		out = append(out, s.Appointments(ctx, id)...)
	}
	return out
}

// PrependAppointment puts ap at the head of its client's collection,
// replacing any older copy with the same id.
func (s *Store) PrependAppointment(ctx context.Context, ap models.Appointment) error {
	if ap.ClientID == "" {
		return errors.New("mirror: appointment without client")
	}

	s.apptMu.Lock()
	defer s.apptMu.Unlock()

	current := s.Appointments(ctx, ap.ClientID)
	next := make([]models.Appointment, 0, len(current)+1)
	next = append(next, ap)
	for _, existing := range current {
		if existing.ID != ap.ID {
			next = append(next, existing)
		}
	}

	if err := s.track(ctx, ap.ClientID); err != nil {
		return err
	}
	return Write(ctx, s, ForClient(KeyAppointments, ap.ClientID), next)
}

// SetAppointmentStatus rewrites the status of the client's record with id.
// It reports whether the record was found.
func (s *Store) SetAppointmentStatus(ctx context.Context, clientID, id, status string) (bool, error) {
	s.apptMu.Lock()
	defer s.apptMu.Unlock()

	current := s.Appointments(ctx, clientID)
	found := false
	for i := range current {
		if current[i].ID == id {
			current[i].Status = status
			found = true
		}
	}
	if !found {
		return false, nil
	}

	return true, Write(ctx, s, ForClient(KeyAppointments, clientID), current)
}

// MergeAppointments stores a fresh remote list for the client, keeping local
// records that have not reached the remote store yet at the head.
func (s *Store) MergeAppointments(ctx context.Context, clientID string, remote []models.Appointment) ([]models.Appointment, error) {
	s.apptMu.Lock()
	defer s.apptMu.Unlock()

	merged := make([]models.Appointment, 0, len(remote))
	for _, ap := range s.Appointments(ctx, clientID) {
		if ap.IsLocal() {
			merged = append(merged, ap)
		}
	}
	merged = append(merged, remote...)

	if err := s.track(ctx, clientID); err != nil {
		return merged, err
	}
	return merged, Write(ctx, s, ForClient(KeyAppointments, clientID), merged)
}

// ===============================
// Sessions and preferences
// ===============================

// User returns the persisted session of clientID, if any.
func (s *Store) User(ctx context.Context, clientID string) (*models.User, bool) {
	if clientID == "" {
		return nil, false
	}
	u, ok := Read[models.User](ctx, s, ForClient(KeyUser, clientID))
	if !ok || u.ID != clientID {
		return nil, false
	}
	return &u, true
}

// UserByPhone finds the persisted session using the WhatsApp number phone.
func (s *Store) UserByPhone(ctx context.Context, phone string) (*models.User, bool) {
	id, ok := Read[string](ctx, s, ForClient(KeyPhone, phone))
	if !ok {
		return nil, false
	}
	u, ok := s.User(ctx, id)
	if !ok || u.WhatsApp != phone {
		return nil, false
	}
	return u, true
}

func (s *Store) SetUser(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return errors.New("mirror: user without id")
	}
	if err := s.track(ctx, u.ID); err != nil {
		return err
	}
	if err := Write(ctx, s, ForClient(KeyUser, u.ID), u); err != nil {
		return err
	}
	if u.WhatsApp == "" {
		return nil
	}
	return Write(ctx, s, ForClient(KeyPhone, u.WhatsApp), u.ID)
}

// ClearSession forgets everything tied to clientID. Other clients and shop
// data (catalog and config) stay.
func (s *Store) ClearSession(ctx context.Context, clientID string) error {
	if u, ok := s.User(ctx, clientID); ok && u.WhatsApp != "" {
		if owner, _ := Read[string](ctx, s, ForClient(KeyPhone, u.WhatsApp)); owner == clientID {
			if err := s.Remove(ctx, ForClient(KeyPhone, u.WhatsApp)); err != nil {
				return fmt.Errorf("clear phone: %w", err)
			}
		}
	}

	for _, key := range []Key{KeyUser, KeyAppointments, KeyNotificationsEnabled} {
		if err := s.Remove(ctx, ForClient(key, clientID)); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return s.untrack(ctx, clientID)
}

// NotificationsEnabled is false until the client turns it on.
func (s *Store) NotificationsEnabled(ctx context.Context, clientID string) bool {
	enabled, _ := Read[bool](ctx, s, ForClient(KeyNotificationsEnabled, clientID))
	return enabled
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, clientID string, enabled bool) error {
	return Write(ctx, s, ForClient(KeyNotificationsEnabled, clientID), enabled)
}
