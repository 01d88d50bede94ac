package sheet

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Comparator orders two cell values. Either value may be nil.
type Comparator func(a, b any) int

// Formatter renders a cell value as text.
type Formatter func(v any) string

// Ancestor distances used when resolving a handler for a runtime type.
// Lower wins.
const (
	distExact      = 0 // registered type is the runtime type
	distInterface  = 1 // registered interface is implemented by the runtime type
	distUnderlying = 2 // registered predeclared type underlies the named runtime type
	distAny        = 3 // registered catch-all
	distNone       = -1
)

var anyType = reflect.TypeFor[any]()

// Registry resolves comparators and formatters by value type.
//
// Writers serialize on a mutex and publish a fresh immutable snapshot; readers
// load the current snapshot without locking. A render works from a single
// snapshot, so registrations racing with it are either fully visible or not
// at all.
//
// The zero Registry has no handlers: every lookup fails with [ErrNoHandler].
// Use [NewRegistry] for one carrying the defaults.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[handlers]
}

type entry[F any] struct {
	typ reflect.Type
	fn  F
	seq int
}

type handlers struct {
	comparators []entry[Comparator]
	formatters  []entry[Formatter]
	null        Formatter
	seq         int
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by renders that do not pass
// [WithRegistry].
func Default() *Registry { return defaultRegistry }

// NewRegistry returns a registry carrying the default handlers:
//
//   - comparators for every predeclared ordered type, bool (false first) and
//     [time.Time]
//   - a catch-all comparator ordering values by their textual form
//   - a catch-all formatter using [fmt.Sprint]
//   - a null formatter producing the empty string
func NewRegistry() *Registry {
	h := &handlers{}
	putComparator(h, cmp.Compare[int])
	putComparator(h, cmp.Compare[int8])
	putComparator(h, cmp.Compare[int16])
	putComparator(h, cmp.Compare[int32])
	putComparator(h, cmp.Compare[int64])
	putComparator(h, cmp.Compare[uint])
	putComparator(h, cmp.Compare[uint8])
	putComparator(h, cmp.Compare[uint16])
	putComparator(h, cmp.Compare[uint32])
	putComparator(h, cmp.Compare[uint64])
	putComparator(h, cmp.Compare[uintptr])
	putComparator(h, cmp.Compare[float32])
	putComparator(h, cmp.Compare[float64])
	putComparator(h, cmp.Compare[string])
	putComparator(h, compareBool)
	putComparator(h, time.Time.Compare)
	putComparator(h, compareText)
	putFormatter(h, func(v any) string { return fmt.Sprint(v) })
	h.null = constant("")

	r := &Registry{}
	r.snap.Store(h)
	return r
}

// Clone returns an independent registry starting from r's current handlers.
func (r *Registry) Clone() *Registry {
	c := &Registry{}
	c.snap.Store(r.snap.Load())
	return c
}

// RegisterComparator installs cmp for values of type T, replacing any
// comparator already registered for T. T may be an interface type, in which
// case it applies to every type implementing it.
//
// Nulls are handled before cmp runs: they sort after every non-null value.
func RegisterComparator[T any](r *Registry, cmp func(a, b T) int) {
	r.update(func(h *handlers) { putComparator(h, cmp) })
}

// RegisterFormatter installs fn for values of type T, replacing any formatter
// already registered for T. Null cells never reach fn; see [Registry.SetNull].
func RegisterFormatter[T any](r *Registry, fn func(T) string) {
	r.update(func(h *handlers) { putFormatter(h, fn) })
}

// SetNull sets the text rendered for null cells.
func (r *Registry) SetNull(text string) {
	r.update(func(h *handlers) { h.null = constant(text) })
}

// ComparatorFor resolves the comparator for values of type t. A nil t
// resolves to the catch-all comparator.
func (r *Registry) ComparatorFor(t reflect.Type) (Comparator, error) {
	c, _, err := r.snapshot().comparator(t)
	return c, err
}

// FormatterFor resolves the formatter for values of type t. A nil t resolves
// to the null formatter.
func (r *Registry) FormatterFor(t reflect.Type) (Formatter, error) {
	f, _, err := r.snapshot().formatter(t)
	return f, err
}

func (r *Registry) snapshot() *handlers { return r.snap.Load() }

func (r *Registry) update(fn func(h *handlers)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snap.Load().clone()
	fn(next)
	r.snap.Store(next)
}

func (h *handlers) clone() *handlers {
	if h == nil {
		return &handlers{}
	}
	return &handlers{
		comparators: slices.Clone(h.comparators),
		formatters:  slices.Clone(h.formatters),
		null:        h.null,
		seq:         h.seq,
	}
}

func (h *handlers) comparator(t reflect.Type) (Comparator, int, error) {
	if h == nil {
		return nil, distNone, fmt.Errorf("%w: comparator for %v", ErrNoHandler, t)
	}
	if t == nil {
		t = anyType
	}
	e, dist, ok := best(h.comparators, t)
	if !ok {
		return nil, distNone, fmt.Errorf("%w: comparator for %v", ErrNoHandler, t)
	}
	return e.fn, dist, nil
}

func (h *handlers) formatter(t reflect.Type) (Formatter, int, error) {
	if h == nil {
		return nil, distNone, fmt.Errorf("%w: formatter for %v", ErrNoHandler, t)
	}
	if t == nil {
		if h.null == nil {
			return nil, distNone, fmt.Errorf("%w: formatter for null", ErrNoHandler)
		}
		return h.null, distExact, nil
	}
	e, dist, ok := best(h.formatters, t)
	if !ok {
		return nil, distNone, fmt.Errorf("%w: formatter for %v", ErrNoHandler, t)
	}
	return e.fn, dist, nil
}

// best filters the entries eligible for t and returns the one closest to it.
// Among interfaces at the same distance, one embedded in another loses to
// the other; remaining ties go to the earliest registration.
func best[F any](entries []entry[F], t reflect.Type) (entry[F], int, bool) {
	var (
		candidates []entry[F]
		closest    = distNone
	)
	for _, e := range entries {
		d := distance(e.typ, t)
		switch {
		case d == distNone:
		case closest == distNone || d < closest:
			candidates = append(candidates[:0], e)
			closest = d
		case d == closest:
			candidates = append(candidates, e)
		}
	}
	if closest == distNone {
		return entry[F]{}, distNone, false
	}
	var (
		found entry[F]
		ok    bool
	)
	for _, e := range candidates {
		if closest == distInterface && narrowed(e, candidates) {
			continue
		}
		if !ok || e.seq < found.seq {
			found, ok = e, true
		}
	}
	return found, closest, true
}

// narrowed reports whether another candidate interface embeds e's.
func narrowed[F any](e entry[F], candidates []entry[F]) bool {
	for _, o := range candidates {
		if o.typ != e.typ && o.typ.Implements(e.typ) && !e.typ.Implements(o.typ) {
			return true
		}
	}
	return false
}

func distance(registered, t reflect.Type) int {
	switch {
	case registered == t:
		return distExact
	case registered == anyType:
		return distAny
	case registered.Kind() == reflect.Interface:
		if t.Implements(registered) {
			return distInterface
		}
	case isPredeclared(registered) && t.Kind() == registered.Kind():
		return distUnderlying
	}
	return distNone
}

func isPredeclared(t reflect.Type) bool {
	if t.PkgPath() != "" || t.Name() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func putComparator[T any](h *handlers, cmp func(a, b T) int) {
	typ := reflect.TypeFor[T]()
	h.comparators = upsert(h.comparators, typ, nullsLast(typed(typ, cmp)), &h.seq)
}

func putFormatter[T any](h *handlers, fn func(T) string) {
	typ := reflect.TypeFor[T]()
	h.formatters = upsert(h.formatters, typ, func(v any) string {
		x, ok := as[T](typ, v)
		if !ok {
			return fmt.Sprint(v)
		}
		return fn(x)
	}, &h.seq)
}

// upsert replaces the entry for typ in place, keeping its registration order,
// or appends a new one.
func upsert[F any](entries []entry[F], typ reflect.Type, fn F, seq *int) []entry[F] {
	for i := range entries {
		if entries[i].typ == typ {
			entries[i].fn = fn
			return entries
		}
	}
	*seq++
	return append(entries, entry[F]{typ: typ, fn: fn, seq: *seq})
}

func typed[T any](typ reflect.Type, cmp func(a, b T) int) Comparator {
	return func(a, b any) int {
		x, okx := as[T](typ, a)
		y, oky := as[T](typ, b)
		if !okx || !oky {
			return compareMixed(a, b)
		}
		return cmp(x, y)
	}
}

func nullsLast(c Comparator) Comparator {
	return func(a, b any) int {
		an, bn := KindOf(a) == KindNull, KindOf(b) == KindNull
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		return c(a, b)
	}
}

// as converts v to T, either directly or, for a predeclared T, from a named
// type sharing its underlying kind.
func as[T any](typ reflect.Type, v any) (T, bool) {
	if x, ok := v.(T); ok {
		return x, true
	}
	var zero T
	if v == nil || !isPredeclared(typ) {
		return zero, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != typ.Kind() {
		return zero, false
	}
	x, ok := rv.Convert(typ).Interface().(T)
	return x, ok
}

// compareMixed orders values of different types: numerically when both are
// numbers, by text otherwise.
func compareMixed(a, b any) int {
	if KindOf(a).Numeric() && KindOf(b).Numeric() {
		return compareNumbers(a, b)
	}
	return compareText(a, b)
}

// compareNumbers compares numbers of any kind exactly. NaN sorts first, as
// with [cmp.Compare].
func compareNumbers(a, b any) int {
	x, xnan := number(a)
	y, ynan := number(b)
	switch {
	case xnan && ynan:
		return 0
	case xnan:
		return -1
	case ynan:
		return 1
	}
	return x.Cmp(y)
}

func number(v any) (*big.Float, bool) {
	rv := reflect.ValueOf(v)
	switch KindOf(v) {
	case KindInt:
		return new(big.Float).SetInt64(rv.Int()), false
	case KindUint:
		return new(big.Float).SetUint64(rv.Uint()), false
	default:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, true
		}
		return new(big.Float).SetFloat64(f), false
	}
}

func compareText(a, b any) int {
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func constant(s string) Formatter {
	return func(any) string { return s }
}
