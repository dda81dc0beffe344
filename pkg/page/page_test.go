package page

import (
	"fmt"
	"testing"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) *dataset.Dataset {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item %d", i+1)
	}
	return dataset.New("numbered", items)
}

func intPtr(v int) *int { return &v }

func TestPaginate(t *testing.T) {
	ds := numbered(250)

	testCases := []struct {
		desc     string
		start    int
		size     int
		first    string
		length   int
		previous *int
		next     *int
	}{
		{desc: "first page", start: 1, size: 100, first: "item 1", length: 100, next: intPtr(101)},
		{desc: "middle page", start: 101, size: 100, first: "item 101", length: 100, previous: intPtr(1), next: intPtr(201)},
		{desc: "last partial page", start: 201, size: 100, first: "item 201", length: 50, previous: intPtr(101)},
		{desc: "unaligned start", start: 50, size: 100, first: "item 50", length: 100, previous: intPtr(1), next: intPtr(150)},
		{desc: "last item", start: 250, size: 100, first: "item 250", length: 1, previous: intPtr(150)},
		{desc: "page ends on last item", start: 151, size: 100, first: "item 151", length: 100, previous: intPtr(51)},
		{desc: "size one", start: 2, size: 1, first: "item 2", length: 1, previous: intPtr(1), next: intPtr(3)},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := Paginate(ds, tc.start, tc.size)
			require.NoError(t, err)
			assert.Equal(t, tc.start, p.Start)
			assert.Equal(t, 250, p.Total)
			assert.Equal(t, tc.length, p.Count)
			require.Len(t, p.Items, tc.length)
			assert.Equal(t, tc.first, p.Items[0])
			assert.Equal(t, tc.previous, p.Previous)
			assert.Equal(t, tc.next, p.Next)
		})
	}
}

func TestPaginateCompleteness(t *testing.T) {
	for _, n := range []int{1, 7, 99, 100, 101, 250} {
		for _, size := range []int{1, 3, 100} {
			t.Run(fmt.Sprintf("%d items by %d", n, size), func(t *testing.T) {
				ds := numbered(n)
				var all []string
				start := 1
				for pages := 0; ; pages++ {
					require.Less(t, pages, n+1, "pagination did not terminate")
					p, err := Paginate(ds, start, size)
					require.NoError(t, err)
					all = append(all, p.Items...)
					if p.Next == nil {
						break
					}
					start = *p.Next
				}
				assert.Equal(t, ds.Slice(0, n), all)
			})
		}
	}
}

func TestPaginateBackwards(t *testing.T) {
	ds := numbered(250)
	p, err := Paginate(ds, 201, 100)
	require.NoError(t, err)

	var starts []int
	for p.Previous != nil {
		p, err = Paginate(ds, *p.Previous, 100)
		require.NoError(t, err)
		starts = append(starts, p.Start)
	}
	assert.Equal(t, []int{101, 1}, starts)
}

func TestPaginateCursors(t *testing.T) {
	for _, n := range []int{1, 5, 100, 101} {
		ds := numbered(n)
		first, err := Paginate(ds, 1, DefaultSize)
		require.NoError(t, err)
		assert.Nil(t, first.Previous)

		last, err := Paginate(ds, n, DefaultSize)
		require.NoError(t, err)
		assert.Nil(t, last.Next)
	}
}

func TestPaginateEmptyDataset(t *testing.T) {
	ds := dataset.New("empty", nil)
	for _, start := range []int{1, 2, 500} {
		p, err := Paginate(ds, start, DefaultSize)
		require.NoError(t, err)
		assert.Equal(t, []string{}, p.Items)
		assert.Equal(t, 0, p.Count)
		assert.Equal(t, 0, p.Total)
		assert.Nil(t, p.Previous)
		assert.Nil(t, p.Next)
	}
}

func TestPaginatePastEnd(t *testing.T) {
	ds := numbered(250)

	p, err := Paginate(ds, 251, 100)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Count)
	assert.Equal(t, 250, p.Total)
	assert.Nil(t, p.Next)
	assert.Equal(t, intPtr(151), p.Previous)

	p, err = Paginate(numbered(3), 10, 100)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, intPtr(1), p.Previous)
}

func TestPaginateInvalid(t *testing.T) {
	ds := numbered(10)

	_, err := Paginate(ds, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidStart)
	_, err = Paginate(ds, -3, 10)
	assert.ErrorIs(t, err, ErrInvalidStart)
	_, err = Paginate(ds, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
