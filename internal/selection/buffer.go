// Package selection holds the per-workflow scratch state used while picking
// line items for a purchase, manufacturing run, product assembly, or sale:
// the full candidate list, a query-filtered view of it, and the chosen set
// with quantity/cost overrides. The filtered view and the chosen set are
// keyed independently, so changing the filter never loses chosen items that
// fall out of view.
package selection

import "strings"

// Candidate is anything a buffer can offer for selection.
type Candidate interface {
	Key() int64
	Label() string
}

// Buffer tracks available and chosen items for a single workflow.
type Buffer[T Candidate] struct {
	candidates []T
	filtered   []T
	chosen     []T
	query      string
}

// Load replaces the candidate list and resets the filtered view. The chosen
// set is cleared; callers load once per workflow activation.
func (b *Buffer[T]) Load(items []T) {
	b.candidates = append([]T(nil), items...)
	b.chosen = nil
	b.query = ""
	b.refilter()
}

// SetQuery recomputes the filtered view with a case-sensitive substring
// match on the label. An empty query restores the full candidate list.
func (b *Buffer[T]) SetQuery(q string) {
	b.query = q
	b.refilter()
}

// Query returns the current filter text.
func (b *Buffer[T]) Query() string {
	return b.query
}

func (b *Buffer[T]) refilter() {
	if b.query == "" {
		b.filtered = append([]T(nil), b.candidates...)
		return
	}
	b.filtered = nil
	for _, c := range b.candidates {
		if strings.Contains(c.Label(), b.query) {
			b.filtered = append(b.filtered, c)
		}
	}
}

// Filtered returns a copy of the current filtered view, safe to publish
// while the buffer keeps mutating.
func (b *Buffer[T]) Filtered() []T {
	return append([]T(nil), b.filtered...)
}

// Apply mutates the filtered item with the given key and folds the result
// into the chosen set: items the remove predicate matches are dropped,
// everything else is inserted or updated in place.
func (b *Buffer[T]) Apply(key int64, mutate func(*T), remove func(T) bool) {
	idx := -1
	for i := range b.filtered {
		if b.filtered[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	mutate(&b.filtered[idx])
	item := b.filtered[idx]

	if remove != nil && remove(item) {
		b.Discard(key)
		return
	}
	for i := range b.chosen {
		if b.chosen[i].Key() == key {
			b.chosen[i] = item
			return
		}
	}
	b.chosen = append(b.chosen, item)
}

// Discard removes the keyed item from the chosen set.
func (b *Buffer[T]) Discard(key int64) {
	kept := b.chosen[:0]
	for _, c := range b.chosen {
		if c.Key() != key {
			kept = append(kept, c)
		}
	}
	b.chosen = kept
}

// Chosen returns a copy of the chosen set, safe to hand to an asynchronous
// operation while the buffer keeps mutating.
func (b *Buffer[T]) Chosen() []T {
	return append([]T(nil), b.chosen...)
}

// Reset discards all state.
func (b *Buffer[T]) Reset() {
	*b = Buffer[T]{}
}
