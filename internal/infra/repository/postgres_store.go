package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
)

// Postgres error codes the gateway cares about.
const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
)

// PostgresStore is the remote store backed by gorm over Postgres. Rows go
// in and out as column maps so the gateway owns the shape.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// --------------------------------------------------
// Select
// --------------------------------------------------

func (s *PostgresStore) Select(
	ctx context.Context,
	table string,
	q gateway.Query,
) ([]gateway.Row, error) {

	tx := s.db.WithContext(ctx).Table(table)

	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}

	tx = applyFilters(tx, q.Filters)

	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: o.Column},
			Desc:   o.Desc,
		})
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}

	out := make([]gateway.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, gateway.Row(r))
	}
	return out, nil
}

// --------------------------------------------------
// Insert
// --------------------------------------------------

// Insert assigns a uuid when the row has no id and returns the stored row
// as the database sees it, defaults included.
func (s *PostgresStore) Insert(
	ctx context.Context,
	table string,
	row gateway.Row,
) (gateway.Row, error) {

	values := map[string]any(copyRow(row))
	if _, ok := values["id"]; !ok {
		values["id"] = uuid.NewString()
	}

	db := s.db.WithContext(ctx)

	if err := db.Table(table).Create(values).Error; err != nil {
		return nil, mapError(err)
	}

	var stored []map[string]any
	if err := db.Table(table).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: values["id"]}).
		Limit(1).
		Find(&stored).Error; err != nil {
		return nil, mapError(err)
	}
	if len(stored) == 0 {
		return gateway.Row(values), nil
	}

	return gateway.Row(stored[0]), nil
}

// --------------------------------------------------
// Update
// --------------------------------------------------

func (s *PostgresStore) Update(
	ctx context.Context,
	table string,
	filters []gateway.Filter,
	set gateway.Row,
) (int64, error) {

	if len(filters) == 0 {
		return 0, fmt.Errorf("update %s without filters", table)
	}

	tx := applyFilters(s.db.WithContext(ctx).Table(table), filters).
		Updates(map[string]any(set))
	if tx.Error != nil {
		return 0, mapError(tx.Error)
	}

	return tx.RowsAffected, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func applyFilters(tx *gorm.DB, filters []gateway.Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case gateway.OpNeq:
			tx = tx.Where(clause.Neq{Column: col, Value: f.Value})
		default:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	return tx
}

// mapError translates driver failures into the gateway sentinels. Anything
// that is not a recognized refusal counts as the store being unreachable.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInsufficientPrivilege:
			return fmt.Errorf("%w: %s", gateway.ErrPermissionDenied, pgErr.Message)
		case pgUniqueViolation:
			return &gateway.ConflictError{Constraint: pgErr.ConstraintName}
		}
		return fmt.Errorf("postgres %s: %s", pgErr.Code, pgErr.Message)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", gateway.ErrConflict, err)
	}

	return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
}

// Compile-time check
var _ gateway.Store = (*PostgresStore)(nil)
