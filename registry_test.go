package sheet_test

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/sheet"
)

type labeler interface{ Label() string }

type sizer interface{ Size() int }

type tagA struct{}

func (tagA) Label() string { return "A" }
func (tagA) Size() int     { return 1 }

type tagB struct{}

func (tagB) Label() string { return "B" }

type namer interface{ Name() string }

type fullNamer interface {
	namer
	FullName() string
}

type person struct{}

func (person) Name() string     { return "ann" }
func (person) FullName() string { return "ann lee" }

type pet struct{}

func (pet) Name() string { return "rex" }

type point struct{ X, Y int }

func (p point) String() string { return fmt.Sprintf("(%d %d)", p.X, p.Y) }

func format(t *testing.T, r *sheet.Registry, v any) string {
	t.Helper()
	f, err := r.FormatterFor(reflect.TypeOf(v))
	require.NoError(t, err)
	return f(v)
}

func compare(t *testing.T, r *sheet.Registry, a, b any) int {
	t.Helper()
	v := a
	if v == nil {
		v = b
	}
	c, err := r.ComparatorFor(reflect.TypeOf(v))
	require.NoError(t, err)
	return c(a, b)
}

func TestRegistryDefaults(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	tests := map[string]struct {
		a, b any
		want int
	}{
		"int less":         {a: 1, b: 2, want: -1},
		"int equal":        {a: 2, b: 2, want: 0},
		"float greater":    {a: 2.5, b: 1.5, want: 1},
		"string":           {a: "a", b: "b", want: -1},
		"bool":             {a: false, b: true, want: -1},
		"uint8":            {a: uint8(9), b: uint8(3), want: 1},
		"duration":         {a: time.Minute, b: time.Second, want: 1},
		"time":             {a: time.Unix(0, 0), b: time.Unix(1, 0), want: -1},
		"struct by text":   {a: point{1, 2}, b: point{1, 3}, want: -1},
		"null last":        {a: nil, b: 1, want: 1},
		"non-null first":   {a: 1, b: nil, want: -1},
		"both null":        {a: nil, b: nil, want: 0},
		"named underlying": {a: celsius(3), b: celsius(-1), want: 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, compare(t, r, tt.a, tt.b))
		})
	}
}

func TestRegistryDefaultFormatters(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	assert.Equal(t, "42", format(t, r, 42))
	assert.Equal(t, "1.5", format(t, r, 1.5))
	assert.Equal(t, "1m0s", format(t, r, time.Minute))
	assert.Equal(t, "(1 2)", format(t, r, point{1, 2}))

	null, err := r.FormatterFor(nil)
	require.NoError(t, err)
	assert.Empty(t, null(nil))
}

func TestRegistrySetNull(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	r.SetNull("n/a")
	null, err := r.FormatterFor(nil)
	require.NoError(t, err)
	assert.Equal(t, "n/a", null(nil))
}

func TestRegistrySpecificity(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	sheet.RegisterFormatter(r, func(s fmt.Stringer) string { return "stringer" })
	sheet.RegisterFormatter(r, func(f float64) string { return "float64" })

	assert.Equal(t, "stringer", format(t, r, point{}), "interface beats catch-all")
	assert.Equal(t, "float64", format(t, r, celsius(1)), "underlying type beats catch-all")
	assert.Equal(t, "float64", format(t, r, 1.0))
	assert.Equal(t, "7", format(t, r, 7), "unrelated registrations do not apply")

	sheet.RegisterFormatter(r, func(p point) string { return "point" })
	assert.Equal(t, "point", format(t, r, point{}), "exact type beats interface")
}

func TestRegistryUnrelatedSiblingsKeepOwnHandlers(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	sheet.RegisterFormatter(r, func(a tagA) string { return "handled A" })
	sheet.RegisterFormatter(r, func(b tagB) string { return "handled B" })
	sheet.RegisterFormatter(r, func(l labeler) string { return "label " + l.Label() })

	assert.Equal(t, "handled A", format(t, r, tagA{}))
	assert.Equal(t, "handled B", format(t, r, tagB{}))
}

func TestRegistryInterfaceTiesGoToFirstRegistered(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	sheet.RegisterFormatter(r, func(s sizer) string { return "sizer" })
	sheet.RegisterFormatter(r, func(l labeler) string { return "labeler" })
	assert.Equal(t, "sizer", format(t, r, tagA{}))
	assert.Equal(t, "labeler", format(t, r, tagB{}))

	// Re-registering keeps the original position.
	sheet.RegisterFormatter(r, func(l labeler) string { return "labeler v2" })
	assert.Equal(t, "sizer", format(t, r, tagA{}))
	assert.Equal(t, "labeler v2", format(t, r, tagB{}))
}

func TestRegistryEmbeddingInterfaceWins(t *testing.T) {
	t.Parallel()
	tests := map[string]func(r *sheet.Registry){
		"embedded registered first": func(r *sheet.Registry) {
			sheet.RegisterFormatter(r, func(n namer) string { return "namer" })
			sheet.RegisterFormatter(r, func(n fullNamer) string { return "fullnamer" })
		},
		"embedding registered first": func(r *sheet.Registry) {
			sheet.RegisterFormatter(r, func(n fullNamer) string { return "fullnamer" })
			sheet.RegisterFormatter(r, func(n namer) string { return "namer" })
		},
	}
	for name, register := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := sheet.NewRegistry()
			register(r)
			assert.Equal(t, "fullnamer", format(t, r, person{}))
			assert.Equal(t, "namer", format(t, r, pet{}))

			tbl := sheet.NewTable()
			tbl.Cell("p", person{}).FlushRow()
			out, err := tbl.Render(sheet.WithRegistry(r))
			require.NoError(t, err)
			assert.Equal(t, "p\nfullnamer", out)
		})
	}
}

func TestRegistryOverwrite(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	sheet.RegisterComparator(r, func(a, b int) int { return b - a })
	assert.Equal(t, 1, compare(t, r, 1, 2))
	sheet.RegisterComparator(r, func(a, b int) int { return a - b })
	assert.Equal(t, -1, compare(t, r, 1, 2))
}

func TestRegistryComparatorNullsHandledBeforeCustom(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	called := false
	sheet.RegisterComparator(r, func(a, b point) int {
		called = true
		return 0
	})
	assert.Equal(t, 1, compare(t, r, nil, point{}))
	assert.False(t, called)
}

func TestRegistryComparatorForNull(t *testing.T) {
	t.Parallel()
	c, err := sheet.NewRegistry().ComparatorFor(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c(nil, nil))
	assert.Equal(t, -1, c("a", nil))
	assert.Equal(t, -1, c("a", "b"))
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()
	var r sheet.Registry
	_, err := r.FormatterFor(reflect.TypeFor[int]())
	require.ErrorIs(t, err, sheet.ErrNoHandler)
	_, err = r.FormatterFor(nil)
	require.ErrorIs(t, err, sheet.ErrNoHandler)
	_, err = r.ComparatorFor(reflect.TypeFor[int]())
	require.ErrorIs(t, err, sheet.ErrNoHandler)

	sheet.RegisterFormatter(&r, func(i int) string { return "int" })
	f, err := r.FormatterFor(reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Equal(t, "int", f(1))

	_, err = r.FormatterFor(reflect.TypeFor[string]())
	require.ErrorIs(t, err, sheet.ErrNoHandler)
	_, err = r.FormatterFor(nil)
	require.ErrorIs(t, err, sheet.ErrNoHandler, "null formatter is never implied")
}

func TestRegistryClone(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	c := r.Clone()
	sheet.RegisterFormatter(c, func(i int) string { return "clone" })
	assert.Equal(t, "clone", format(t, c, 1))
	assert.Equal(t, "1", format(t, r, 1))
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()
	assert.Same(t, sheet.Default(), sheet.Default())
	assert.Equal(t, "3", format(t, sheet.Default(), 3))
}

func TestRegistryConcurrentRegisterAndRender(t *testing.T) {
	t.Parallel()
	r := sheet.NewRegistry()
	tbl, err := sheet.FromColumns(sheet.Col("n", 3, 1, 2))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sheet.RegisterFormatter(r, func(n int) string { return fmt.Sprintf("v%d-%d", i, n) })
		}()
		go func() {
			defer wg.Done()
			out, err := tbl.Render(sheet.WithRegistry(r), sheet.WithSort(sheet.Asc("n")))
			assert.NoError(t, err)
			lines := strings.Split(out, "\n")
			assert.Len(t, lines, 4)
			// One snapshot per render: every line uses the same formatter.
			prefix := strings.TrimSuffix(lines[1], "1")
			assert.Equal(t, prefix+"2", lines[2])
			assert.Equal(t, prefix+"3", lines[3])
		}()
	}
	wg.Wait()
}
