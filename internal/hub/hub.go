package hub

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// Source tells where a change came from.
type Source string

const (
	// SourceLocal is a write made by this process.
	SourceLocal Source = "local"
	// SourceStorage is a write to the shared mirror by another process.
	SourceStorage Source = "storage"
	// SourceRemote is a row change pushed by the remote store.
	SourceRemote Source = "remote"
)

// Event is what generic listeners receive.
type Event struct {
	Source Source `json:"source"`
	Table  string `json:"table,omitempty"`
}

// Change is a row-level change on a remote table.
type Change struct {
	Table     string         `json:"table"`
	EventType string         `json:"eventType"`
	New       map[string]any `json:"new,omitempty"`
	Old       map[string]any `json:"old,omitempty"`
	Source    Source         `json:"source"`
}

type Listener func(Event)

type TableListener func(Change)

// Hub fans change notifications out to every subscriber. Safe for
// concurrent use; listeners run on the notifying goroutine.
type Hub struct {
	mu      sync.RWMutex
	nextID  uint64
	all     map[uint64]Listener
	byTable map[string]map[uint64]TableListener

	log     zerolog.Logger
	metrics *metrics.Metrics
}

func New(log zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		all:     make(map[uint64]Listener),
		byTable: make(map[string]map[uint64]TableListener),
		log:     log.With().Str("component", "hub").Logger(),
		metrics: m,
	}
}

// Subscribe registers fn for every change. The returned func removes it and
// may be called more than once.
func (h *Hub) Subscribe(fn Listener) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.all[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.all, id)
		h.mu.Unlock()
	}
}

// SubscribeTable registers fn for row changes on one table.
func (h *Hub) SubscribeTable(table string, fn TableListener) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.byTable[table] == nil {
		h.byTable[table] = make(map[uint64]TableListener)
	}
	h.byTable[table][id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.byTable[table], id)
		if len(h.byTable[table]) == 0 {
			delete(h.byTable, table)
		}
		h.mu.Unlock()
	}
}

// Notify tells every generic listener that something changed.
func (h *Hub) Notify(source Source) {
	h.fanOut(Event{Source: source})
}

// Publish delivers a row change to the table's listeners, then to every
// generic listener.
func (h *Hub) Publish(ch Change) {
	if ch.Source == "" {
		ch.Source = SourceRemote
	}

	h.mu.RLock()
	table := make([]TableListener, 0, len(h.byTable[ch.Table]))
	for _, fn := range h.byTable[ch.Table] {
		table = append(table, fn)
	}
	h.mu.RUnlock()

	for _, fn := range table {
		h.safeCall(func() { fn(ch) })
	}

	h.fanOut(Event{Source: ch.Source, Table: ch.Table})
}

// Attach publishes everything received on changes until the channel closes
// or ctx is done. It returns immediately.
func (h *Hub) Attach(ctx context.Context, changes <-chan Change) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ch, ok := <-changes:
				if !ok {
					return
				}
				h.log.Debug().
					Str("table", ch.Table).
					Str("event", ch.EventType).
					Msg("realtime change")
				h.Publish(ch)
			}
		}
	}()
}

func (h *Hub) fanOut(ev Event) {
	// snapshot so listeners may (un)subscribe while being called
	h.mu.RLock()
	listeners := make([]Listener, 0, len(h.all))
	for _, fn := range h.all {
		listeners = append(listeners, fn)
	}
	h.mu.RUnlock()

	h.metrics.Delivery(string(ev.Source))

	for _, fn := range listeners {
		h.safeCall(func() { fn(ev) })
	}
}

func (h *Hub) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.Panic()
			h.log.Error().Interface("panic", r).Msg("listener panicked")
		}
	}()
	fn()
}
