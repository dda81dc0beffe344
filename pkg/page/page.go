// Package page cuts stable, bounded windows out of a dataset.
//
// Positions are 1-based. Cursors are plain start values; rendering them as
// links is left to the caller.
package page

import (
	"errors"
	"fmt"

	"github.com/bastiangx/suggestd/pkg/dataset"
)

// DefaultSize is the page size used when none is configured.
const DefaultSize = 100

var (
	// ErrInvalidStart is returned for a start position below 1.
	ErrInvalidStart = errors.New("invalid start")
	// ErrInvalidSize is returned for a page size below 1.
	ErrInvalidSize = errors.New("invalid page size")
)

// Page is a window of a dataset. Count is the number of items on the page and
// Total the size of the dataset. Previous and Next hold the start of the
// adjacent windows, or nil when there is none.
type Page struct {
	Start    int      `json:"start" msgpack:"start"`
	Items    []string `json:"items" msgpack:"items"`
	Count    int      `json:"count" msgpack:"count"`
	Total    int      `json:"total" msgpack:"total"`
	Previous *int     `json:"previous" msgpack:"previous"`
	Next     *int     `json:"next" msgpack:"next"`
}

// Paginate returns the page of ds beginning at start with up to size items.
//
// A start past the end is not an error: the page is empty, Next is nil and
// Previous points at the last full window.
func Paginate(ds *dataset.Dataset, start, size int) (Page, error) {
	if start < 1 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidStart, start)
	}
	if size < 1 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	count := ds.Len()
	p := Page{
		Start: start,
		Items: ds.Slice(start-1, start-1+size),
		Total: count,
	}
	p.Count = len(p.Items)
	if count == 0 {
		return p, nil
	}

	if start > count {
		p.Previous = cursor(max(1, count-size+1))
		return p, nil
	}
	if start > 1 {
		p.Previous = cursor(max(1, start-size))
	}
	if start+size <= count {
		p.Next = cursor(start + size)
	}
	return p, nil
}

func cursor(v int) *int {
	return &v
}
