package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pick struct {
	id   int64
	name string
	qty  int64
	cost string
}

func (p pick) Key() int64    { return p.id }
func (p pick) Label() string { return p.name }

func twoConditionRemove(p pick) bool { return p.qty == 0 && p.cost == "" }

func load(t *testing.T) *Buffer[pick] {
	t.Helper()
	b := &Buffer[pick]{}
	b.Load([]pick{
		{id: 1, name: "bracket"},
		{id: 2, name: "spring"},
		{id: 3, name: "long spring"},
	})
	return b
}

func TestFilterMatchesSubstringCaseSensitive(t *testing.T) {
	b := load(t)

	b.SetQuery("spring")
	require.Len(t, b.Filtered(), 2)

	b.SetQuery("Spring")
	require.Empty(t, b.Filtered())

	b.SetQuery("")
	require.Len(t, b.Filtered(), 3)
}

func TestApplyInsertsAndUpdates(t *testing.T) {
	b := load(t)

	b.Apply(2, func(p *pick) { p.qty = 4 }, twoConditionRemove)
	require.Len(t, b.Chosen(), 1)
	require.EqualValues(t, 4, b.Chosen()[0].qty)

	b.Apply(2, func(p *pick) { p.qty = 7 }, twoConditionRemove)
	require.Len(t, b.Chosen(), 1)
	require.EqualValues(t, 7, b.Chosen()[0].qty)
}

func TestTwoConditionRemoval(t *testing.T) {
	b := load(t)

	b.Apply(1, func(p *pick) { p.qty = 2; p.cost = "3.50" }, twoConditionRemove)
	require.Len(t, b.Chosen(), 1)

	// qty zeroed but cost text still present: stays chosen.
	b.Apply(1, func(p *pick) { p.qty = 0 }, twoConditionRemove)
	require.Len(t, b.Chosen(), 1)

	// qty zero and cost cleared: removed.
	b.Apply(1, func(p *pick) { p.cost = "" }, twoConditionRemove)
	require.Empty(t, b.Chosen())
}

func TestFilterChangeKeepsHiddenChosen(t *testing.T) {
	b := load(t)

	b.Apply(1, func(p *pick) { p.qty = 5 }, twoConditionRemove)
	b.SetQuery("spring")

	require.Len(t, b.Filtered(), 2)
	require.Len(t, b.Chosen(), 1)
	require.EqualValues(t, 1, b.Chosen()[0].id)

	// An Apply on an item hidden by the filter is a no-op.
	b.Apply(1, func(p *pick) { p.qty = 9 }, twoConditionRemove)
	require.EqualValues(t, 5, b.Chosen()[0].qty)
}

func TestFilteredReturnsCopy(t *testing.T) {
	b := load(t)

	snap := b.Filtered()
	b.Apply(1, func(p *pick) { p.qty = 8 }, twoConditionRemove)

	require.EqualValues(t, 0, snap[0].qty)
	require.EqualValues(t, 8, b.Filtered()[0].qty)
}

func TestChosenReturnsCopy(t *testing.T) {
	b := load(t)
	b.Apply(1, func(p *pick) { p.qty = 5 }, twoConditionRemove)

	snap := b.Chosen()
	b.Apply(1, func(p *pick) { p.qty = 8 }, twoConditionRemove)

	require.EqualValues(t, 5, snap[0].qty)
	require.EqualValues(t, 8, b.Chosen()[0].qty)
}

func TestDiscard(t *testing.T) {
	b := load(t)
	b.Apply(1, func(p *pick) { p.qty = 5 }, twoConditionRemove)
	b.Apply(2, func(p *pick) { p.qty = 3 }, twoConditionRemove)

	b.Discard(1)
	require.Len(t, b.Chosen(), 1)
	require.EqualValues(t, 2, b.Chosen()[0].id)
}
