package sheet

import "iter"

// BuildSeq is [BuildRows] over an iterator. Elements are consumed as they
// arrive; each row is committed once fn returns.
func BuildSeq[E any](seq iter.Seq[E], fn func(t *Table, elem E)) *Table {
	t := NewTable()
	for elem := range seq {
		fn(t, elem)
		t.FlushRow()
	}
	return t
}

// BuildChan is [BuildRows] over a channel. It returns once ch is closed.
func BuildChan[E any](ch <-chan E, fn func(t *Table, elem E)) *Table {
	return BuildSeq(chanToIter(ch), fn)
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}
