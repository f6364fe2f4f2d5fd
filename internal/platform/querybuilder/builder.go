package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNoTable = errors.New("table is required")

// stmt accumulates SQL text and its positional arguments.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

// bind appends v as the next $n argument.
func (s *stmt) bind(v any) {
	s.args = append(s.args, v)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// expand writes expr, binding each '?' to the next value in vals.
// Surplus '?' are written literally.
func (s *stmt) expand(expr string, vals []any) {
	for expr != "" {
		i := strings.IndexByte(expr, '?')
		if i < 0 || len(vals) == 0 {
			s.sql.WriteString(expr)
			return
		}
		s.sql.WriteString(expr[:i])
		s.bind(vals[0])
		vals = vals[1:]
		expr = expr[i+1:]
	}
}

func (s *stmt) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
}

func (s *stmt) returning(cols []string) {
	if len(cols) > 0 {
		s.write(" RETURNING ", strings.Join(cols, ", "))
	}
}

func (s *stmt) done() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

// Condition is one AND-joined predicate of a WHERE clause.
type Condition interface {
	render(s *stmt)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(s *stmt) {
	s.write(c.column, " ", c.op, " ")
	s.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

func NotEq(column string, value any) Condition {
	return compare{column: column, op: "<>", value: value}
}

type rawCondition struct {
	expr string
	args []any
}

func (c rawCondition) render(s *stmt) {
	s.expand(c.expr, c.args)
}

// Expr is a free-form predicate using '?' placeholders.
func Expr(expr string, args ...any) Condition {
	return rawCondition{expr: expr, args: args}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select: columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select: %w", errNoTable)
	}

	var s stmt
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	return s.done()
}

// InsertBuilder renders one or more VALUES rows. Bulk player upserts
// send a chunk of rows per statement.
type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends raw SQL such as an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert: %w", errNoTable)
	case len(b.columns) == 0:
		return "", nil, errors.New("insert: columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert: at least one row is required")
	}

	var s stmt
	s.args = make([]any, 0, len(b.rows)*len(b.columns))
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for n, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", n, len(row), len(b.columns))
		}
		if n > 0 {
			s.write(", ")
		}
		s.write("(")
		for i, v := range row {
			if i > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.done()
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table     string
	sets      []assignment
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return b.SetExpr(column, "?", value)
}

// SetNull clears column.
func (b *UpdateBuilder) SetNull(column string) *UpdateBuilder {
	return b.SetExpr(column, "NULL")
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update: %w", errNoTable)
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update: nothing to set")
	}

	var s stmt
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ")
		s.expand(a.expr, a.args)
	}
	s.where(b.where)
	s.returning(b.returning)
	return s.done()
}

type DeleteBuilder struct {
	table     string
	where     []Condition
	returning []string
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

// ToSQL refuses to render an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete: %w", errNoTable)
	}
	if len(b.where) == 0 {
		return "", nil, errors.New("delete: at least one condition is required")
	}

	var s stmt
	s.write("DELETE FROM ", b.table)
	s.where(b.where)
	s.returning(b.returning)
	return s.done()
}
