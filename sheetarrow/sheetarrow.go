// Package sheetarrow builds sheet tables from Apache Arrow data.
//
// Arrow is columnar, so conversion goes through [sheet.FromColumns]: each
// Arrow column becomes one sheet column, in schema order, and nulls become
// null cells.
package sheetarrow

import (
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/bjaus/sheet"
)

// ErrUnsupportedType reports an Arrow column whose type has no cell mapping.
var ErrUnsupportedType = errors.New("unsupported arrow type")

// FromRecord builds a table with one row per record row.
func FromRecord(rec arrow.Record) (*sheet.Table, error) {
	cols := make([]sheet.Column, rec.NumCols())
	for i := range cols {
		name := rec.ColumnName(i)
		vals, err := values(rec.Column(i))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols[i] = sheet.Column{Name: name, Values: vals}
	}
	return sheet.FromColumns(cols...)
}

// FromTable builds a table with one row per table row, concatenating the
// chunks of every column.
func FromTable(tbl arrow.Table) (*sheet.Table, error) {
	cols := make([]sheet.Column, tbl.NumCols())
	for i := range cols {
		col := tbl.Column(i)
		vals := make([]any, 0, col.Len())
		for _, chunk := range col.Data().Chunks() {
			v, err := values(chunk)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Name(), err)
			}
			vals = append(vals, v...)
		}
		cols[i] = sheet.Column{Name: col.Name(), Values: vals}
	}
	return sheet.FromColumns(cols...)
}

func values(arr arrow.Array) ([]any, error) {
	get, err := accessor(arr)
	if err != nil {
		return nil, err
	}
	out := make([]any, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			continue
		}
		out[i] = get(i)
	}
	return out, nil
}

// accessor returns a function reading position i of arr as a Go value.
func accessor(arr arrow.Array) (func(i int) any, error) {
	switch a := arr.(type) {
	case *array.String:
		return func(i int) any { return a.Value(i) }, nil
	case *array.LargeString:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Boolean:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Int8:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Int16:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Int32:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Int64:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Uint8:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Uint16:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Uint32:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Uint64:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Float32:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Float64:
		return func(i int) any { return a.Value(i) }, nil
	case *array.Duration:
		unit := a.DataType().(*arrow.DurationType).Unit.Multiplier()
		return func(i int) any { return time.Duration(a.Value(i)) * unit }, nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return func(i int) any { return a.Value(i).ToTime(unit) }, nil
	case *array.Date32:
		return func(i int) any { return a.Value(i).ToTime() }, nil
	case *array.Date64:
		return func(i int) any { return a.Value(i).ToTime() }, nil
	case *array.Null:
		return func(int) any { return nil }, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, arr.DataType())
	}
}
