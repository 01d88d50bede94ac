// Package sheet builds tables of typed cells and renders them as CSV.
//
// A [Table] is built cell by cell, row by row, or from parallel columns:
//
//	t, err := sheet.FromColumns(
//		sheet.Col("input", 1, 2, 3),
//		sheet.Col("double", 2, 4, 6),
//	)
//
//	t := sheet.BuildRows(orders, func(t *sheet.Table, o Order) {
//		t.Cell("id", o.ID)
//		t.Cell("customer", o.Customer)
//		t.Cell("elapsed", o.Elapsed)
//	})
//
// and rendered with [Table.Render]:
//
//	out, err := t.Render(sheet.WithSort(sheet.Desc("elapsed"), sheet.Asc("id")))
//
// # Output
//
// The first line holds the column names of the first row. Fields are joined
// with a comma and lines with "\n"; there is no trailing newline. Text cells
// are wrapped in double quotes with embedded quotes doubled. No other escaping
// is applied, so non-text values must not produce commas or newlines.
// A table without rows renders as the [WithDefault] text.
//
// # Sorting
//
// [WithSort] takes any number of [SortKey] values. The first key is primary
// and each following key breaks ties. The sort is stable: rows that tie on
// every key keep their insertion order. Nulls sort after all other values in
// ascending order, and therefore first in descending order.
//
// # Registry
//
// Comparators and formatters are resolved per value type from a [Registry].
// For a runtime type the closest registered type wins: the type itself, then
// an interface it implements, then the predeclared type underlying it, then
// the catch-all registered for any. Nulls are formatted by the registry's
// null formatter, which is always present.
//
//	r := sheet.NewRegistry()
//	sheet.RegisterFormatter(r, sheet.Minutes)
//	out, err := t.Render(sheet.WithRegistry(r))
//
// Renders without [WithRegistry] use [Default]. Registrations are safe to make
// while other goroutines render; each render sees the registry as it was
// when the render started.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrColumnLength]: parallel columns of different lengths
//   - [ErrUnknownColumn]: a sort key names a column not in the header
//   - [ErrNoHandler]: the registry has no handler for a value
//   - [ErrInvalidSortKey]: malformed sort spec or direction
//   - [ErrInvalidProfile]: malformed render profile
//   - [ErrInvalidJSON]: JSON input that is not an array of objects
package sheet
