package sheet

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RenderOption configures a single render.
type RenderOption func(*renderConfig)

type renderConfig struct {
	keys      []SortKey
	def       string
	registry  *Registry
	log       *zap.Logger
	null      *string
	delimiter string
	aligns    map[string]Alignment
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{
		registry:  Default(),
		log:       zap.NewNop(),
		delimiter: ",",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSort orders rows by keys, the first key primary and each following key
// breaking ties left to right. Rows tying on every key keep their insertion
// order.
func WithSort(keys ...SortKey) RenderOption {
	return func(c *renderConfig) { c.keys = append(c.keys, keys...) }
}

// WithDefault sets the text returned for a table without rows.
// Default: empty string.
func WithDefault(s string) RenderOption {
	return func(c *renderConfig) { c.def = s }
}

// WithRegistry resolves comparators and formatters from r instead of
// [Default].
func WithRegistry(r *Registry) RenderOption {
	return func(c *renderConfig) { c.registry = r }
}

// WithLogger logs handler resolution and render progress to l at debug level.
// Default: no logging.
func WithLogger(l *zap.Logger) RenderOption {
	return func(c *renderConfig) { c.log = l }
}

// WithNull overrides the registry's null text for this render.
func WithNull(s string) RenderOption {
	return func(c *renderConfig) { c.null = &s }
}

// WithDelimiter sets the field delimiter.
// Default: comma.
func WithDelimiter(r rune) RenderOption {
	return func(c *renderConfig) { c.delimiter = string(r) }
}

// Render returns the table as delimited text: a header line of column names,
// then one line per row, separated by "\n" with no trailing newline.
//
// A table without committed rows renders as the [WithDefault] text. Sort keys
// must name columns of the first row, otherwise Render fails with
// [ErrUnknownColumn] before anything is sorted or formatted.
func (t *Table) Render(opts ...RenderOption) (string, error) {
	cfg := newRenderConfig(opts)
	g, err := t.grid(&cfg)
	if err != nil {
		return "", err
	}
	if g == nil {
		return cfg.def, nil
	}
	lines := make([]string, len(g.rows)+1)
	lines[0] = strings.Join(g.header, cfg.delimiter)
	for i, row := range g.rows {
		lines[i+1] = strings.Join(row, cfg.delimiter)
	}
	return strings.Join(lines, "\n"), nil
}

// String renders the table with default options. It returns the empty string
// if rendering fails.
func (t *Table) String() string {
	s, err := t.Render()
	if err != nil {
		return ""
	}
	return s
}

// grid is a sorted and formatted table.
type grid struct {
	header []string
	kinds  []Kind
	rows   [][]string
}

// grid sorts and formats the committed rows. It returns nil for a table
// without rows.
func (t *Table) grid(cfg *renderConfig) (*grid, error) {
	if len(t.rows) == 0 {
		cfg.log.Debug("render empty table", zap.String("default", cfg.def))
		return nil, nil
	}
	if cfg.registry == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrNoHandler)
	}
	header := t.Header()
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, k := range cfg.keys {
		if _, ok := index[k.Column]; !ok {
			return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownColumn, k.Column, header)
		}
	}

	res := newResolver(cfg)
	cfg.log.Debug("render table",
		zap.Int("rows", len(t.rows)),
		zap.Strings("columns", header),
		zap.Stringers("sort", cfg.keys),
	)

	rows, err := sortRows(t.rows, cfg.keys, index, res)
	if err != nil {
		return nil, err
	}

	g := &grid{header: header, kinds: columnKinds(rows, header), rows: make([][]string, len(rows))}
	for i, row := range rows {
		line := make([]string, len(header))
		for j := range header {
			v := cellValue(row, j, header[j])
			f, err := res.formatter(v)
			if err != nil {
				return nil, err
			}
			line[j] = f(v)
		}
		g.rows[i] = line
	}
	return g, nil
}

// cellValue returns the value of column name in row, or nil if the row has
// no such column.
func cellValue(row []Cell, j int, name string) any {
	c, _ := cellAt(row, j, name)
	return c.Value
}

// cellAt finds column name in row, preferring position j. Rows are expected
// to follow the header order; the name lookup covers rows that do not.
func cellAt(row []Cell, j int, name string) (Cell, bool) {
	if j < len(row) && row[j].Column == name {
		return row[j], true
	}
	for _, c := range row {
		if c.Column == name {
			return c, true
		}
	}
	return Cell{}, false
}

func sortRows(rows [][]Cell, keys []SortKey, index map[string]int, res *resolver) ([][]Cell, error) {
	if len(keys) == 0 {
		return rows, nil
	}
	sorted := slices.Clone(rows)
	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, k := range keys {
			col := index[k.Column]
			a := cellValue(sorted[i], col, k.Column)
			b := cellValue(sorted[j], col, k.Column)
			compare, err := res.comparator(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			c := compare(a, b)
			if k.Direction == Descending {
				c = cmp.Compare(0, c)
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return sorted, nil
}

// columnKinds returns the kind of the first non-null value in each column.
func columnKinds(rows [][]Cell, header []string) []Kind {
	kinds := make([]Kind, len(header))
	for j, name := range header {
		for _, row := range rows {
			if c, ok := cellAt(row, j, name); ok && c.Kind != KindNull {
				kinds[j] = c.Kind
				break
			}
		}
	}
	return kinds
}

// resolver resolves handlers from one registry snapshot and caches them per
// type for the duration of a render.
type resolver struct {
	h           *handlers
	null        *string
	log         *zap.Logger
	comparators map[reflect.Type]Comparator
	formatters  map[reflect.Type]Formatter
}

func newResolver(cfg *renderConfig) *resolver {
	return &resolver{
		h:           cfg.registry.snapshot(),
		null:        cfg.null,
		log:         cfg.log,
		comparators: make(map[reflect.Type]Comparator),
		formatters:  make(map[reflect.Type]Formatter),
	}
}

// comparator resolves by the type of whichever value is non-null.
func (r *resolver) comparator(a, b any) (Comparator, error) {
	v := a
	if v == nil {
		v = b
	}
	t := reflect.TypeOf(v)
	if c, ok := r.comparators[t]; ok {
		return c, nil
	}
	c, dist, err := r.h.comparator(t)
	if err != nil {
		return nil, err
	}
	r.logResolved("comparator", t, dist)
	r.comparators[t] = c
	return c, nil
}

func (r *resolver) formatter(v any) (Formatter, error) {
	if v == nil && r.null != nil {
		return constant(*r.null), nil
	}
	t := reflect.TypeOf(v)
	if f, ok := r.formatters[t]; ok {
		return f, nil
	}
	f, dist, err := r.h.formatter(t)
	if err != nil {
		return nil, err
	}
	r.logResolved("formatter", t, dist)
	r.formatters[t] = f
	return f, nil
}

func (r *resolver) logResolved(handler string, t reflect.Type, dist int) {
	name := "null"
	if t != nil {
		name = t.String()
	}
	fields := []zap.Field{zap.String("handler", handler), zap.String("type", name), zap.Int("distance", dist)}
	if dist == distAny && t != nil {
		r.log.Debug("resolved catch-all handler", fields...)
		return
	}
	r.log.Debug("resolved handler", fields...)
}
