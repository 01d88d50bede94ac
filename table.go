package sheet

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Cell is a single labeled value within a row.
type Cell struct {
	Column string
	Value  any
	Kind   Kind
}

// Table accumulates rows of cells. Cells are appended to an in-progress row
// with [Table.Cell] and committed with [Table.FlushRow]; committed rows are
// never modified.
//
// Every row is expected to carry the columns of the first row in the same
// order. A Table is not safe for concurrent use.
type Table struct {
	rows    [][]Cell
	current []Cell
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{} }

// Cell appends a cell to the in-progress row.
//
// Pointers are followed, and a nil pointer is stored as null. Text is stored
// quoted: wrapped in double quotes with embedded double quotes doubled.
// Other values are stored as given and formatted at render time.
func (t *Table) Cell(column string, value any) *Table {
	value = deref(value)
	kind := KindOf(value)
	switch kind {
	case KindNull:
		value = nil
	case KindText:
		value = quote(reflect.ValueOf(value).String())
	}
	t.current = append(t.current, Cell{Column: column, Value: value, Kind: kind})
	return t
}

// CellFunc appends the cell produced by fn to the in-progress row.
func (t *Table) CellFunc(fn func() (string, any)) *Table {
	column, value := fn()
	return t.Cell(column, value)
}

// FlushRow commits the in-progress row and starts a new one.
func (t *Table) FlushRow() {
	t.rows = append(t.rows, slices.Clip(t.current))
	t.current = nil
}

// Len returns the number of committed rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns the column names of the first committed row, or nil if no
// row has been committed.
func (t *Table) Header() []string {
	if len(t.rows) == 0 {
		return nil
	}
	header := make([]string, len(t.rows[0]))
	for i, c := range t.rows[0] {
		header[i] = c.Column
	}
	return header
}

// Rows returns a copy of the committed rows.
func (t *Table) Rows() [][]Cell {
	out := make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

// Column is a named sequence of values for [FromColumns].
type Column struct {
	Name   string
	Values []any
}

// Col builds a [Column] from typed values.
func Col[T any](name string, values ...T) Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return Column{Name: name, Values: out}
}

// FromColumns builds a table from parallel columns, one row per index with
// columns in the order given. All columns must hold the same number of
// values.
func FromColumns(cols ...Column) (*Table, error) {
	t := NewTable()
	if len(cols) == 0 {
		return t, nil
	}
	n := len(cols[0].Values)
	for _, c := range cols[1:] {
		if len(c.Values) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, column %q has %d",
				ErrColumnLength, cols[0].Name, n, c.Name, len(c.Values))
		}
	}
	for i := range n {
		for _, c := range cols {
			t.Cell(c.Name, c.Values[i])
		}
		t.FlushRow()
	}
	return t, nil
}

// BuildRows builds a table with one row per element. fn must add a cell for
// every column; the row is committed after fn returns.
func BuildRows[E any](elems []E, fn func(t *Table, elem E)) *Table {
	return BuildSeq(slices.Values(elems), fn)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
