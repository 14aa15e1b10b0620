package query

import (
	"fmt"
	"strings"
)

// Builder accumulates WHERE clauses with positional parameters. Placeholders
// are numbered from the running argument count, so the clause text and the
// argument list stay aligned as long as both come from the same builder.
type Builder struct {
	clauses []string
	args    []any
}

// Equal appends an exact-match clause. Empty string values are skipped so that
// absent query parameters contribute nothing.
func (b *Builder) Equal(column string, value any) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// Search appends a case-insensitive substring match across the given columns.
// The single bound value is referenced by position from every column.
func (b *Builder) Search(value string, columns ...string) {
	if value == "" || len(columns) == 0 {
		return
	}
	b.args = append(b.args, "%"+strings.ToLower(value)+"%")
	placeholder := len(b.args)
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("lower(%s) LIKE $%d", column, placeholder))
	}
	clause := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		clause = "(" + clause + ")"
	}
	b.clauses = append(b.clauses, clause)
}

// Where renders the accumulated predicate, with a leading space, or an empty
// string when no clause was added.
func (b *Builder) Where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// Args returns the bound values in placeholder order.
func (b *Builder) Args() []any {
	return b.args
}

// Append adds a raw positional value (used for LIMIT/OFFSET) and returns its
// placeholder number.
func (b *Builder) Append(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}
