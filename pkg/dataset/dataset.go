/*
Package dataset holds the named, ordered string collections served by suggestd.

A Dataset is loaded once from a file and never changes afterwards. Items keep
their file order and duplicates are preserved positionally, so position i
always refers to the same string for the lifetime of the process. Every
accessor is a plain read and safe for concurrent use.

Supported files are JSON arrays of strings, YAML sequences of strings and
plain text with one item per line:

	ds, err := dataset.Load("data/occupations.json")
	info, err := dataset.Describe("data/occupations.json", ds)
*/
package dataset

// Dataset is an immutable ordered collection of strings identified by name.
type Dataset struct {
	name  string
	items []string
}

// New creates a Dataset from items. The slice is copied so later changes by
// the caller cannot reach the dataset.
func New(name string, items []string) *Dataset {
	owned := make([]string, len(items))
	copy(owned, items)
	return &Dataset{
		name:  name,
		items: owned,
	}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Len returns the number of items.
func (d *Dataset) Len() int {
	return len(d.items)
}

// At returns the item at position i (0-based).
func (d *Dataset) At(i int) string {
	return d.items[i]
}

// Slice returns a copy of items[lo:hi], clamped to the dataset bounds.
func (d *Dataset) Slice(lo, hi int) []string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(d.items) {
		hi = len(d.items)
	}
	if lo >= hi {
		return []string{}
	}
	out := make([]string, hi-lo)
	copy(out, d.items[lo:hi])
	return out
}
