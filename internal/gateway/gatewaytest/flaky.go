// Package gatewaytest provides remote stores for tests of code built on
// the gateway.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
)

// FlakyStore wraps a MemoryStore with per-operation failure injection and
// call counting.
type FlakyStore struct {
	*repository.MemoryStore

	mu        sync.Mutex
	selectErr error
	insertErr error
	updateErr error
	calls     map[string]int
	onInsert  func(table string)
}

func NewFlakyStore() *FlakyStore {
	return &FlakyStore{
		MemoryStore: repository.NewMemoryStore(),
		calls:       make(map[string]int),
	}
}

// Offline makes every operation fail as unreachable.
func (f *FlakyStore) Offline() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectErr = gateway.ErrUnavailable
	f.insertErr = gateway.ErrUnavailable
	f.updateErr = gateway.ErrUnavailable
}

// Online clears every injected failure.
func (f *FlakyStore) Online() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectErr, f.insertErr, f.updateErr = nil, nil, nil
}

func (f *FlakyStore) FailSelect(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectErr = err
}

func (f *FlakyStore) FailInsert(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

func (f *FlakyStore) FailUpdate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

// OnInsert runs fn before every insert reaches the store, e.g. to let
// another client win a slot race.
func (f *FlakyStore) OnInsert(fn func(table string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onInsert = fn
}

// Calls returns how many times op ("select", "insert", "update") was
// invoked on table.
func (f *FlakyStore) Calls(op, table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op+":"+table]
}

func (f *FlakyStore) count(op, table string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op+":"+table]++
	switch op {
	case "select":
		return f.selectErr
	case "insert":
		return f.insertErr
	default:
		return f.updateErr
	}
}

func (f *FlakyStore) Select(ctx context.Context, table string, q gateway.Query) ([]gateway.Row, error) {
	if err := f.count("select", table); err != nil {
		return nil, err
	}
	return f.MemoryStore.Select(ctx, table, q)
}

func (f *FlakyStore) Insert(ctx context.Context, table string, row gateway.Row) (gateway.Row, error) {
	if err := f.count("insert", table); err != nil {
		return nil, err
	}
	f.mu.Lock()
	hook := f.onInsert
	f.mu.Unlock()
	if hook != nil {
		hook(table)
	}
	return f.MemoryStore.Insert(ctx, table, row)
}

func (f *FlakyStore) Update(ctx context.Context, table string, filters []gateway.Filter, set gateway.Row) (int64, error) {
	if err := f.count("update", table); err != nil {
		return 0, err
	}
	return f.MemoryStore.Update(ctx, table, filters, set)
}

var _ gateway.Store = (*FlakyStore)(nil)
