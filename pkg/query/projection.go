// Package query provides SQL query construction utilities built around
// field-to-column projections. Handlers describe sorting and filtering in
// terms of model field names; the projection resolves them to qualified
// column references so user input never reaches the SQL text directly.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap associates model field names with table columns for a
// single table. The alias qualifies every projected column.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection for schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make([]string, 0),
		fields:  make(map[string]string),
	}
}

// Project registers a column under the given field name. Registration order
// determines column order in generated SELECT statements.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns = append(p.columns, column)
	p.fields[field] = column
	return p
}

// Table returns the qualified, aliased table reference.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Columns returns the comma-separated list of aliased column references.
func (p *ProjectionMap) Columns() string {
	qualified := make([]string, len(p.columns))
	for i, col := range p.columns {
		qualified[i] = p.alias + "." + col
	}
	return strings.Join(qualified, ", ")
}

// Column resolves a field name to its aliased column reference.
// Unregistered fields resolve to the first projected column, so malformed
// sort input degrades to a stable default instead of invalid SQL.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.fields[field]; ok {
		return p.alias + "." + col
	}
	return p.alias + "." + p.columns[0]
}

// Has reports whether the field is registered in the projection.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}
