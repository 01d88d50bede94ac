package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrColumnLength   = errors.New("columns differ in length")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNoHandler      = errors.New("no handler registered")
	ErrInvalidSortKey = errors.New("invalid sort key")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidJSON    = errors.New("invalid json rows")
)

// Direction is the order applied by a [SortKey].
type Direction int

const (
	Ascending Direction = iota
	Descending
)

var directions = map[string]Direction{
	"asc":        Ascending,
	"ascending":  Ascending,
	"desc":       Descending,
	"descending": Descending,
}

// String returns the direction name.
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc", "ascending", "desc" or "descending",
// ignoring case.
func ParseDirection(s string) (Direction, error) {
	if d, ok := directions[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return Ascending, fmt.Errorf("%w: direction %q", ErrInvalidSortKey, s)
}

// SortKey names a column and the direction to order it in.
type SortKey struct {
	Column    string
	Direction Direction
}

// Asc returns an ascending key on column.
func Asc(column string) SortKey { return SortKey{Column: column, Direction: Ascending} }

// Desc returns a descending key on column.
func Desc(column string) SortKey { return SortKey{Column: column, Direction: Descending} }

func (k SortKey) String() string {
	if k.Direction == Descending {
		return "-" + k.Column
	}
	return k.Column
}

// ParseSortKeys parses a comma separated sort spec. A leading "-" sorts the
// column descending, a leading "+" or no prefix sorts it ascending:
//
//	keys, err := sheet.ParseSortKeys("-triple,input")
//
// An empty spec yields no keys.
func ParseSortKeys(spec string) ([]SortKey, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var keys []SortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		dir := Ascending
		switch {
		case strings.HasPrefix(field, "-"):
			dir = Descending
			field = field[1:]
		case strings.HasPrefix(field, "+"):
			field = field[1:]
		}
		if field == "" {
			return nil, fmt.Errorf("%w: empty column in %q", ErrInvalidSortKey, spec)
		}
		keys = append(keys, SortKey{Column: field, Direction: dir})
	}
	return keys, nil
}
