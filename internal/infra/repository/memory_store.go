package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

// MemoryStore is an in-process remote store. It enforces the same
// appointment slot uniqueness as the Postgres schema and can act as a
// realtime feed, which makes it usable for local runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]gateway.Row

	subMu sync.Mutex
	subs  []memorySub
}

type memorySub struct {
	ctx    context.Context
	tables map[string]bool
	ch     chan hub.Change
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]gateway.Row)}
}

// Seed appends rows without uniqueness checks or change events.
func (m *MemoryStore) Seed(table string, rows ...gateway.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		cp := copyRow(r)
		if _, ok := cp["id"]; !ok {
			cp["id"] = uuid.NewString()
		}
		m.tables[table] = append(m.tables[table], cp)
	}
}

// Rows returns a copy of every row in table.
func (m *MemoryStore) Rows(table string) []gateway.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gateway.Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

// --------------------------------------------------
// gateway.Store
// --------------------------------------------------

func (m *MemoryStore) Select(ctx context.Context, table string, q gateway.Query) ([]gateway.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	m.mu.RLock()
	var out []gateway.Row
	for _, r := range m.tables[table] {
		if matches(r, q.Filters) {
			out = append(out, project(r, q.Columns))
		}
	}
	m.mu.RUnlock()

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MemoryStore) Insert(ctx context.Context, table string, row gateway.Row) (gateway.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	stored := copyRow(row)
	if _, ok := stored["id"]; !ok {
		stored["id"] = uuid.NewString()
	}

	m.mu.Lock()
	if table == gateway.TableAppointments {
		if constraint := m.slotConflict(stored); constraint != "" {
			m.mu.Unlock()
			return nil, &gateway.ConflictError{Constraint: constraint}
		}
	}
	m.tables[table] = append(m.tables[table], stored)
	m.mu.Unlock()

	m.emit(hub.Change{Table: table, EventType: "INSERT", New: copyRow(stored)})
	return copyRow(stored), nil
}

func (m *MemoryStore) Update(ctx context.Context, table string, filters []gateway.Filter, set gateway.Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	var changes []hub.Change

	m.mu.Lock()
	for i, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		old := copyRow(r)
		for k, v := range set {
			r[k] = v
		}
		m.tables[table][i] = r
		changes = append(changes, hub.Change{
			Table:     table,
			EventType: "UPDATE",
			New:       copyRow(r),
			Old:       old,
		})
	}
	m.mu.Unlock()

	for _, ch := range changes {
		m.emit(ch)
	}
	return int64(len(changes)), nil
}

// slotConflict mirrors the partial unique indexes on
// (professional_id, date, time) and (client_id, date, time) for
// non-canceled rows. It returns the violated constraint, or "". A missing
// client_id never conflicts, like NULL in Postgres. Caller holds mu.
func (m *MemoryStore) slotConflict(row gateway.Row) string {
	clientID, hasClient := row["client_id"]
	hasClient = hasClient && clientID != nil && fmt.Sprint(clientID) != ""

	clientBusy := false
	for _, r := range m.tables[gateway.TableAppointments] {
		if isCanceled(r["status"]) {
			continue
		}
		if fmt.Sprint(r["date"]) != fmt.Sprint(row["date"]) ||
			fmt.Sprint(r["time"]) != fmt.Sprint(row["time"]) {
			continue
		}
		if fmt.Sprint(r["professional_id"]) == fmt.Sprint(row["professional_id"]) {
			return gateway.ConstraintProfessionalSlot
		}
		if hasClient && fmt.Sprint(r["client_id"]) == fmt.Sprint(clientID) {
			clientBusy = true
		}
	}
	if clientBusy {
		return gateway.ConstraintClientSlot
	}
	return ""
}

// --------------------------------------------------
// gateway.Feed
// --------------------------------------------------

func (m *MemoryStore) Subscribe(ctx context.Context, tables ...string) (<-chan hub.Change, error) {
	sub := memorySub{
		ctx:    ctx,
		tables: make(map[string]bool, len(tables)),
		ch:     make(chan hub.Change, 64),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	m.subMu.Lock()
	m.subs = append(m.subs, sub)
	m.subMu.Unlock()

	go func() {
		<-ctx.Done()
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.ch == sub.ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				close(s.ch)
				break
			}
		}
	}()

	return sub.ch, nil
}

func (m *MemoryStore) emit(ch hub.Change) {
	ch.Source = hub.SourceRemote

	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, s := range m.subs {
		if len(s.tables) > 0 && !s.tables[ch.Table] {
			continue
		}
		select {
		case s.ch <- ch:
		default:
			// slow subscriber, drop like a lossy realtime channel
		}
	}
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func matches(r gateway.Row, filters []gateway.Filter) bool {
	for _, f := range filters {
		equal := fmt.Sprint(r[f.Column]) == fmt.Sprint(f.Value)
		switch f.Op {
		case gateway.OpEq:
			if !equal {
				return false
			}
		case gateway.OpNeq:
			if equal {
				return false
			}
		}
	}
	return true
}

func project(r gateway.Row, columns []string) gateway.Row {
	if len(columns) == 0 {
		return copyRow(r)
	}
	out := make(gateway.Row, len(columns))
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

func compare(a, b any) int {
	fa, aok := number(a)
	fb, bok := number(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func isCanceled(v any) bool {
	s := strings.ToLower(fmt.Sprint(v))
	return s == "canceled" || s == "cancelled"
}

func copyRow(r gateway.Row) gateway.Row {
	out := make(gateway.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var (
	_ gateway.Store = (*MemoryStore)(nil)
	_ gateway.Feed  = (*MemoryStore)(nil)
)
