package db

import (
	"sort"
	"strconv"
	"strings"
)

// Builder assembles simple single-table SQL statements. Conditions are
// written with ? placeholders and rewritten to positional $N arguments, so
// the resulting pair feeds pgx directly:
//
//	sql, args := db.Table("users").
//	    Select("id", "email").
//	    Where("status = ?", "active").
//	    OrderBy("created_at DESC").
//	    Limit(20).
//	    SQL()
//	rows, err := pool.Query(ctx, sql, args...)
//
// It is a string assembler, not a schema layer: column and table names pass
// through verbatim and anything beyond one table is written by hand.
type Builder struct {
	table   string
	columns []string
	wheres  []string
	args    []any
	orderBy []string
	limit   int
	offset  int
}

// Table starts a builder for the given table.
func Table(name string) *Builder {
	return &Builder{table: name, limit: -1, offset: -1}
}

// Select sets the projected columns. Defaults to * when never called.
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = columns
	return b
}

// Where appends an AND condition. Each ? in cond consumes one arg.
func (b *Builder) Where(cond string, args ...any) *Builder {
	b.wheres = append(b.wheres, cond)
	b.args = append(b.args, args...)
	return b
}

// OrderBy appends an ORDER BY expression, e.g. "created_at DESC".
func (b *Builder) OrderBy(expr string) *Builder {
	b.orderBy = append(b.orderBy, expr)
	return b
}

// Limit caps the row count.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	return b
}

// SQL renders the builder as a SELECT statement.
func (b *Builder) SQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	b.writeWhere(&sb)
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit >= 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	if b.offset >= 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(b.offset))
	}
	return numberPlaceholders(sb.String()), b.args
}

// Insert renders an INSERT for the given column values. Columns are emitted
// in sorted order so the statement is deterministic.
func (b *Builder) Insert(values map[string]any) (string, []any) {
	cols := sortedKeys(values)
	args := make([]any, 0, len(cols))
	marks := make([]string, 0, len(cols))
	for _, c := range cols {
		args = append(args, values[c])
		marks = append(marks, "?")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(marks, ", "))
	sb.WriteString(")")
	return numberPlaceholders(sb.String()), args
}

// Update renders an UPDATE SET for the given column values, honoring any
// accumulated Where conditions. SET arguments come before WHERE arguments.
func (b *Builder) Update(values map[string]any) (string, []any) {
	cols := sortedKeys(values)
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+len(b.args))
	for _, c := range cols {
		sets = append(sets, c+" = ?")
		args = append(args, values[c])
	}
	args = append(args, b.args...)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	b.writeWhere(&sb)
	return numberPlaceholders(sb.String()), args
}

// Delete renders a DELETE honoring any accumulated Where conditions.
func (b *Builder) Delete() (string, []any) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)
	b.writeWhere(&sb)
	return numberPlaceholders(sb.String()), b.args
}

func (b *Builder) writeWhere(sb *strings.Builder) {
	if len(b.wheres) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(b.wheres, " AND "))
}

// numberPlaceholders rewrites each ? to the next $N positional marker.
func numberPlaceholders(sql string) string {
	var sb strings.Builder
	sb.Grow(len(sql))
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
