package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSuggester struct {
	*Index
	calls int
}

func (c *countingSuggester) Lookup(term string, k int, strategy Strategy) ([]Candidate, error) {
	c.calls++
	return c.Index.Lookup(term, k, strategy)
}

func TestHotCache(t *testing.T) {
	inner := &countingSuggester{Index: newTestIndex(t, breakfast)}
	hc := NewHotCache(inner, 2)

	first, err := hc.Suggest("toast", 5)
	require.NoError(t, err)
	again, err := hc.Suggest("  toast ", 5)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, inner.calls)

	// A different limit or strategy is a different entry.
	_, err = hc.Suggest("toast", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	// Third distinct entry evicts the least recently used one ("toast", 5).
	_, err = hc.Lookup("toast", 5, StrategySimple)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
	_, err = hc.Suggest("toast", 5)
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)

	stats := hc.Stats()
	assert.Equal(t, 2, stats["cacheEntries"])
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 4, stats["cacheMisses"])
	assert.Equal(t, len(breakfast), stats["items"])
}

func TestHotCacheKeepsVerbatimOrder(t *testing.T) {
	hc := NewHotCache(newTestIndex(t, []string{"Reunion", "Réunion"}), 4)

	got, err := hc.Suggest("Reunion", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Reunion", "Réunion"}, Items(got))

	got, err = hc.Suggest("Réunion", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Réunion", "Reunion"}, Items(got))
}

func TestHotCacheDoesNotCacheErrors(t *testing.T) {
	inner := &countingSuggester{Index: newTestIndex(t, breakfast)}
	hc := NewHotCache(inner, 4)

	for i := 0; i < 2; i++ {
		_, err := hc.Suggest("()", 5)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, hc.Stats()["cacheEntries"])
}

func TestHotCacheReturnsCopies(t *testing.T) {
	hc := NewHotCache(newTestIndex(t, breakfast), 4)
	got, err := hc.Suggest("eggs", 5)
	require.NoError(t, err)
	got[0].Item = "changed"

	again, err := hc.Suggest("eggs", 5)
	require.NoError(t, err)
	assert.Equal(t, "Eggs", again[0].Item)
}
