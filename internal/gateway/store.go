package gateway

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

// Remote tables.
const (
	TableServices      = "services"
	TableProfessionals = "professionals"
	TableAppointments  = "appointments"
	TableClients       = "clients"
	TableConfig        = "config"
)

// Tables lists every table the realtime feed should watch.
var Tables = []string{
	TableServices,
	TableProfessionals,
	TableAppointments,
	TableClients,
	TableConfig,
}

var (
	ErrUnavailable      = errors.New("gateway: remote store unavailable")
	ErrPermissionDenied = errors.New("gateway: permission denied")
	ErrConflict         = errors.New("gateway: unique constraint violated")
	ErrNotFound         = errors.New("gateway: row not found")
)

// Unique constraints over active (non-canceled) appointments.
const (
	ConstraintProfessionalSlot = "appointments_active_slot_key"
	ConstraintClientSlot       = "appointments_active_client_slot_key"
)

// ConflictError names the unique constraint a write violated. It matches
// ErrConflict under errors.Is.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Constraint
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConstraintOf returns the violated constraint carried by err, or "".
func ConstraintOf(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// Row is one remote record keyed by column name.
type Row map[string]any

type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

type Order struct {
	Column string
	Desc   bool
}

// Query describes a select. Empty Columns means every column; zero Limit
// means no limit.
type Query struct {
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Store is the remote persistence capability. Implementations wrap their
// failures with the sentinel errors above.
type Store interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table string, filters []Filter, set Row) (int64, error)
}

// Feed is the realtime capability of the remote store.
type Feed interface {
	Subscribe(ctx context.Context, tables ...string) (<-chan hub.Change, error)
}
