package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/tabload/internal/dataset"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// Column is the plan for one source column.
type Column struct {
	Source string // header as read from the file
	Name   string // normalized SQL identifier
	Kind   tabload.ValueKind
	Type   tabload.ColumnType
}

// Plan is the target table layout derived from a dataset.
type Plan struct {
	Table   []string // normalized, possibly schema-qualified, table name
	Columns []Column
}

// BuildPlan maps every dataset column to a normalized identifier and a
// column type. The table name is normalized the same way as column names.
func BuildPlan(ds *dataset.Dataset, table string, dec tabload.DecimalSpec) (*Plan, error) {
	qualified := QualifiedName(table)
	if len(qualified) == 0 {
		return nil, fmt.Errorf("table name %q has no usable characters: %w", table, tabload.ErrInvalidConfig)
	}

	names := UniqueIdentifiers(ds.ColumnNames())
	plan := &Plan{Table: qualified, Columns: make([]Column, len(ds.Columns))}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		plan.Columns[i] = Column{
			Source: col.Name,
			Name:   names[i],
			Kind:   col.Kind,
			Type:   MapType(col, dec),
		}
	}
	return plan, nil
}

// TableName returns the dotted table name without quoting.
func (p *Plan) TableName() string {
	return strings.Join(p.Table, ".")
}

// ColumnNames returns the normalized identifiers in order.
func (p *Plan) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

func quoteTable(p *Plan, d tabload.Dialect) string {
	parts := make([]string, len(p.Table))
	for i, part := range p.Table {
		parts[i] = d.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// BuildCreateTable renders
// CREATE TABLE IF NOT EXISTS <table> (<col1> <type1>, <col2> <type2>, ...);
func BuildCreateTable(p *Plan, d tabload.Dialect) string {
	defs := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		defs[i] = d.QuoteIdentifier(c.Name) + " " + d.ColumnType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", quoteTable(p, d), strings.Join(defs, ", "))
}

// BuildInsert renders
// INSERT INTO <table> (<col1>, ...) VALUES (<placeholder1>, ...);
func BuildInsert(p *Plan, d tabload.Dialect) string {
	cols := make([]string, len(p.Columns))
	marks := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = d.QuoteIdentifier(c.Name)
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", quoteTable(p, d), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// BindRow coerces one source row and converts it for d. The returned
// slice is positionally aligned with p.Columns; null cells become nil.
func (p *Plan) BindRow(row []dataset.Cell, d tabload.Dialect) ([]any, error) {
	args := make([]any, len(p.Columns))
	for i, c := range p.Columns {
		v, err := Coerce(row[i], c.Type)
		if err != nil {
			return nil, &CoercionError{Column: c.Name, Value: row[i].Raw, Err: err}
		}
		if v == nil {
			continue
		}
		bound, err := d.BindValue(c.Type, v)
		if err != nil {
			return nil, &CoercionError{Column: c.Name, Value: row[i].Raw, Err: err}
		}
		args[i] = bound
	}
	return args, nil
}
