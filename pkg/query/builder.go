package query

import (
	"fmt"
	"reflect"
	"strings"
)

// placeholder marks a bind parameter in a condition. Placeholders are
// numbered $1..$n when the statement is built.
const placeholder = "?"

type condition struct {
	clause string
	args   []any
}

// SortField is one ORDER BY term on a view field name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "name,-created_at" into sort fields; a leading
// "-" sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates conditions and ordering for one projection.
// Conditions are joined with AND.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// OrderByFields overrides the default sort. Fields that are not projected
// are ignored so client sort strings cannot inject SQL.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = nil
	for _, f := range fields {
		if b.projection.Known(f.Field) {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// WhereEquals adds field = value. Nil values are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = ?", value)
}

// WhereContains adds a case-insensitive substring match. Nil or empty
// values are skipped.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(b.projection.Column(field)+" ILIKE ?", "%"+*value+"%")
}

// WhereIn adds field IN (values...). Empty values are skipped.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return b.where(fmt.Sprintf("%s IN (%s)", b.projection.Column(field), marks), values...)
}

// WhereNull adds field IS NULL when null is true and IS NOT NULL otherwise.
// A nil flag is skipped.
func (b *Builder) WhereNull(field string, null *bool) *Builder {
	if null == nil {
		return b
	}
	op := "IS NOT NULL"
	if *null {
		op = "IS NULL"
	}
	return b.where(b.projection.Column(field) + " " + op)
}

// WhereSearch adds an ILIKE match of search across fields, joined with OR.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		clauses[i] = b.projection.Column(f) + " ILIKE ?"
		args[i] = "%" + *search + "%"
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

// Where adds a raw condition. Each ? in clause binds the next arg; view
// field names in clause must already be resolved with Column.
func (b *Builder) Where(clause string, args ...any) *Builder {
	return b.where(clause, args...)
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

// Build returns the SELECT with conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), where, b.buildOrderBy()), args
}

// BuildCount returns SELECT COUNT(*) with the same conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage returns the SELECT for a 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildLimit returns the SELECT capped at limit rows.
func (b *Builder) BuildLimit(limit int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d", sql, limit), args
}

// BuildSingle returns the SELECT for one row by id field, ignoring other
// conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.From(), b.projection.Column(idField)), []any{id}
}

func (b *Builder) buildOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var (
		clauses []string
		args    []any
	)
	for _, c := range b.conditions {
		clause := c.clause
		for _, arg := range c.args {
			args = append(args, arg)
			clause = strings.Replace(clause, placeholder, fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses = append(clauses, clause)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
