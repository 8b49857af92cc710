// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of view field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names (as used in JSON filters and sort
// strings) to alias-qualified columns of one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName. Columns are selected in projection order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[viewName] = qualified
	p.order = append(p.order, qualified)
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the FROM target: schema.table alias.
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view field name. Unknown names resolve to themselves.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Known reports whether viewName is projected.
func (p *ProjectionMap) Known(viewName string) bool {
	_, ok := p.columns[viewName]
	return ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
