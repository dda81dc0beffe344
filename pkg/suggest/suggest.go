package suggest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/suggestd/pkg/normalize"
)

var (
	// ErrEmptyQuery is returned when a term normalizes to nothing. Callers
	// treat it as zero matches.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownStrategy is returned for a strategy name that is not supported.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Strategy selects how candidates are matched and ranked.
type Strategy string

const (
	// StrategyGuess tolerates prefixes, misspellings and typos.
	StrategyGuess Strategy = "guess"
	// StrategySimple only returns items containing the query literally.
	StrategySimple Strategy = "simple"
)

// ParseStrategy maps a strategy name to a Strategy. The empty name selects StrategyGuess.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return StrategyGuess, nil
	case StrategyGuess, StrategySimple:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Candidate is a ranked match. Item is the original dataset text and
// Position its 0-based index in the dataset.
type Candidate struct {
	Item     string  `json:"item" msgpack:"item"`
	Score    float64 `json:"score" msgpack:"score"`
	Position int     `json:"position" msgpack:"position"`
}

// Suggest returns up to k items ranked by estimated relevance to term using
// StrategyGuess. A k of zero or less means DefaultLimit.
func (idx *Index) Suggest(term string, k int) ([]Candidate, error) {
	return idx.Lookup(term, k, StrategyGuess)
}

// Lookup returns up to k items matching term under the given strategy,
// highest score first and ties in dataset order.
//
// Only items sharing at least one n-gram with the query are scored, so the
// cost is bounded by the query length and the candidate set rather than the
// dataset size. No candidates is a normal, empty result.
func (idx *Index) Lookup(term string, k int, strategy Strategy) ([]Candidate, error) {
	if strategy != StrategyGuess && strategy != StrategySimple {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if k <= 0 {
		k = DefaultLimit
	}

	normalized := normalize.String(term)
	if normalized == "" {
		return nil, ErrEmptyQuery
	}
	q := idx.newQuery(term, normalized)

	postings := make([]*roaring.Bitmap, 0, len(q.grams))
	for _, g := range q.grams {
		if bm := idx.postingsFor(g, q.short); bm != nil {
			postings = append(postings, bm)
		}
	}
	if len(postings) == 0 {
		return []Candidate{}, nil
	}

	candidates := roaring.FastOr(postings...)
	scored := make([]Candidate, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		pos := it.Next()
		item := idx.ds.At(int(pos))
		cand := normalize.String(item)

		var score float64
		if strategy == StrategySimple {
			s, ok := scoreLiteral(q, cand)
			if !ok {
				continue
			}
			score = s
		} else {
			score = idx.scoreFuzzy(q, cand, sharedGrams(postings, pos))
		}
		score = verbatim(q, item, score)
		scored = append(scored, Candidate{Item: item, Score: score, Position: int(pos)})
	}

	rank(scored)
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// sharedGrams counts the query grams whose postings contain pos.
func sharedGrams(postings []*roaring.Bitmap, pos uint32) int {
	n := 0
	for _, bm := range postings {
		if bm.Contains(pos) {
			n++
		}
	}
	return n
}

// rank sorts by descending score, then ascending position. Positions are
// unique so the order is fully deterministic.
func rank(c []Candidate) {
	slices.SortFunc(c, func(a, b Candidate) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Position, b.Position)
	})
}

// Items returns the item text of each candidate, keeping order.
func Items(candidates []Candidate) []string {
	items := make([]string, len(candidates))
	for i, c := range candidates {
		items[i] = c.Item
	}
	return items
}
