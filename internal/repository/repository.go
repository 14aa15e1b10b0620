package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schoolhub/internal/query"
)

// ErrNotFound reports that no record matched the given identifier. It is
// deliberately distinct from data-access failures so callers can map it to a
// 404 instead of a fault.
var ErrNotFound = errors.New("record not found")

// Definition is the per-entity table: where the rows live, which columns are
// exposed, and how external (API) field names map onto columns. Unknown
// external names are dropped on write, never guessed at.
type Definition struct {
	Table   string
	Columns []string
	// Fields maps external names to writable columns.
	Fields map[string]string
	// Filters maps external names to exact-match filter columns.
	Filters map[string]string
	// Search lists the columns matched by the free-text q filter.
	Search []string
	// OrderBy is the default ordering; identifier descending unless the
	// entity defines a domain order.
	OrderBy string
}

// Resource is the uniform CRUD contract, instantiated once per entity.
type Resource[T any] struct {
	pool *pgxpool.Pool
	def  Definition
}

func NewResource[T any](pool *pgxpool.Pool, def Definition) *Resource[T] {
	if def.OrderBy == "" {
		def.OrderBy = "id DESC"
	}
	return &Resource[T]{pool: pool, def: def}
}

// Filters carries the optional list filters: free-text q plus exact-match
// values keyed by external field name. Values must already have the column's
// Go type; the HTTP layer parses numeric filters before they get here.
type Filters struct {
	Q     string
	Exact map[string]any
}

// build renders the WHERE fragment for a filter set. Exact filters are applied
// in sorted key order so placeholder numbering is deterministic.
func (r *Resource[T]) build(filters Filters) *query.Builder {
	b := &query.Builder{}
	b.Search(filters.Q, r.def.Search...)

	keys := make([]string, 0, len(filters.Exact))
	for key := range filters.Exact {
		if _, ok := r.def.Filters[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.Equal(r.def.Filters[key], filters.Exact[key])
	}
	return b
}

func (r *Resource[T]) selectList() string {
	return strings.Join(r.def.Columns, ", ")
}

// List returns one page of rows plus the total count of the unpaginated
// filtered set. Count and data queries share one predicate and argument list.
func (r *Resource[T]) List(ctx context.Context, filters Filters, page query.Page) ([]T, int64, error) {
	b := r.build(filters)

	var total int64
	countSQL := fmt.Sprintf("SELECT count(*) FROM %s%s", r.def.Table, b.Where())
	if err := r.pool.QueryRow(ctx, countSQL, b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := b.Append(page.Size)
	offset := b.Append(page.Offset())
	dataSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		r.selectList(), r.def.Table, b.Where(), r.def.OrderBy, limit, offset)

	rows, err := r.pool.Query(ctx, dataSQL, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *Resource[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectList(), r.def.Table)
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return zero, err
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, ErrNotFound
	}
	return record, err
}

// Create inserts a record from external field values and returns it fully
// populated, including the assigned identifier and any column defaults.
func (r *Resource[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	columns, args := r.recognized(fields)

	var sql string
	if len(columns) == 0 {
		sql = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", r.def.Table, r.selectList())
	} else {
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			r.def.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), r.selectList())
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

// Update mutates only the recognized fields present in the input. An input
// with nothing to apply is a no-op that returns the current record. The result
// is re-read from the store rather than assembled in memory.
func (r *Resource[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	columns, args := r.recognized(fields)
	if len(columns) == 0 {
		return r.GetByID(ctx, id)
	}

	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		r.def.Table, strings.Join(assignments, ", "), len(args))

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	if tag.RowsAffected() == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the record and reports whether a row existed. Repeat calls
// return false without error.
func (r *Resource[T]) Delete(ctx context.Context, id int64) (bool, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.def.Table)
	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// recognized resolves external field names through the field map, in sorted
// order for deterministic SQL. Unknown names are silently dropped.
func (r *Resource[T]) recognized(fields map[string]any) ([]string, []any) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := r.def.Fields[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	columns := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		columns = append(columns, r.def.Fields[name])
		args = append(args, fields[name])
	}
	return columns, args
}
