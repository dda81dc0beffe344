package suggest

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/normalize"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index answers approximate lookups against a single Dataset.
//
// Every padded n-gram of every normalized item is a key in a patricia trie
// whose value is a roaring bitmap of the item positions containing it. The
// trie gives exact gram lookups for regular queries and prefix visits for
// queries shorter than the gram width. The index keeps only positions; item
// text is always read back from the dataset.
//
// An Index is read-only once NewIndex returns and may be shared by any number
// of goroutines.
type Index struct {
	ds        *dataset.Dataset
	grams     *patricia.Trie
	width     int
	editCap   int
	weights   Weights
	gramCount int
	postings  uint64
}

// NewIndex builds the n-gram index of ds.
// Cost is linear in the total number of characters in the dataset.
func NewIndex(ds *dataset.Dataset, opts ...Option) *Index {
	idx := &Index{
		ds:      ds,
		grams:   patricia.NewTrie(),
		width:   DefaultGramWidth,
		editCap: DefaultEditCap,
		weights: DefaultWeights,
	}
	for _, opt := range opts {
		opt(idx)
	}

	postings := make(map[string]*roaring.Bitmap)
	for pos := 0; pos < ds.Len(); pos++ {
		for _, g := range indexGrams(normalize.String(ds.At(pos)), idx.width) {
			bm, ok := postings[g]
			if !ok {
				bm = roaring.New()
				postings[g] = bm
			}
			bm.Add(uint32(pos))
		}
	}

	for g, bm := range postings {
		bm.RunOptimize()
		idx.grams.Insert(patricia.Prefix(g), bm)
		idx.postings += bm.GetCardinality()
	}
	idx.gramCount = len(postings)
	return idx
}

// GramWidth returns the n-gram width of the index.
func (idx *Index) GramWidth() int {
	return idx.width
}

// Stats returns statistics about the index
func (idx *Index) Stats() map[string]int {
	return map[string]int{
		"items":     idx.ds.Len(),
		"grams":     idx.gramCount,
		"postings":  int(idx.postings),
		"gramWidth": idx.width,
		"editCap":   idx.editCap,
	}
}

// postingsFor returns the positions of the items containing gram. A short gram
// matches every indexed gram it prefixes.
func (idx *Index) postingsFor(gram string, short bool) *roaring.Bitmap {
	if !short {
		if item := idx.grams.Get(patricia.Prefix(gram)); item != nil {
			return item.(*roaring.Bitmap)
		}
		return nil
	}

	var matched []*roaring.Bitmap
	_ = idx.grams.VisitSubtree(patricia.Prefix(gram), func(_ patricia.Prefix, item patricia.Item) error {
		matched = append(matched, item.(*roaring.Bitmap))
		return nil
	})
	switch len(matched) {
	case 0:
		return nil
	case 1:
		return matched[0]
	}
	return roaring.FastOr(matched...)
}
