// Package querybuilder assembles parameterized postgres statements from
// small composable pieces. It covers exactly the query shapes the
// repositories need and emits $n placeholders directly.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and bind arguments. Placeholder numbers are
// derived from the argument slice length, so pieces can be appended in
// any order without threading a counter around.
type stmt struct {
	sql  strings.Builder
	args []any
}

// bind registers a value and returns its placeholder.
func (s *stmt) bind(value any) string {
	s.args = append(s.args, value)
	return "$" + strconv.Itoa(len(s.args))
}

// writeFragment copies a raw SQL fragment into the statement, replacing
// each '?' with the placeholder for the next value. Surplus '?' runes
// are kept verbatim so malformed fragments surface in the final SQL.
func (s *stmt) writeFragment(fragment string, values []any) {
	if len(values) == 0 {
		s.sql.WriteString(fragment)
		return
	}
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(values) {
			s.sql.WriteString(s.bind(values[next]))
			next++
			continue
		}
		s.sql.WriteByte(fragment[i])
	}
}

// Condition writes one WHERE predicate into a statement.
type Condition func(s *stmt)

// Eq matches a column against a bound value.
func Eq(column string, value any) Condition {
	return func(s *stmt) {
		s.sql.WriteString(column)
		s.sql.WriteString(" = ")
		s.sql.WriteString(s.bind(value))
	}
}

// In matches a column against a bound value set. An empty set produces
// a predicate that matches no rows, which keeps callers from having to
// special-case empty ID lists.
func In(column string, values []any) Condition {
	return func(s *stmt) {
		if len(values) == 0 {
			s.sql.WriteString("1=0")
			return
		}
		s.sql.WriteString(column)
		s.sql.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				s.sql.WriteString(", ")
			}
			s.sql.WriteString(s.bind(v))
		}
		s.sql.WriteString(")")
	}
}

// Expr embeds a raw SQL fragment, binding each '?' in order.
func Expr(fragment string, values ...any) Condition {
	return func(s *stmt) {
		s.writeFragment(fragment, values)
	}
}

func writeWhere(s *stmt, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	s.sql.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			s.sql.WriteString(" AND ")
		}
		c(s)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select needs at least one column")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs a table")
	}

	var s stmt
	s.sql.WriteString("SELECT ")
	s.sql.WriteString(strings.Join(b.columns, ", "))
	s.sql.WriteString(" FROM ")
	s.sql.WriteString(b.table)
	writeWhere(&s, b.where)
	if len(b.orderBy) > 0 {
		s.sql.WriteString(" ORDER BY ")
		s.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.sql.WriteString(" LIMIT ")
		s.sql.WriteString(strconv.Itoa(b.limit))
	}
	return s.sql.String(), s.args, nil
}

// assignment is one column of an UPDATE SET list. A nil fragment means
// the column is set to a bound value, otherwise the fragment is written
// raw with its own bound values.
type assignment struct {
	column   string
	value    any
	fragment string
	values   []any
	raw      bool
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL fragment, binding each '?' in order.
func (b *UpdateBuilder) SetExpr(column, fragment string, values ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, fragment: fragment, values: values, raw: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update needs a table")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update needs at least one assignment")
	}

	var s stmt
	s.sql.WriteString("UPDATE ")
	s.sql.WriteString(b.table)
	s.sql.WriteString(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.sql.WriteString(", ")
		}
		s.sql.WriteString(a.column)
		s.sql.WriteString(" = ")
		if a.raw {
			s.writeFragment(a.fragment, a.values)
			continue
		}
		s.sql.WriteString(s.bind(a.value))
	}
	writeWhere(&s, b.where)
	return s.sql.String(), s.args, nil
}
