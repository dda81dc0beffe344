package suggest

import (
	"strings"

	"github.com/bastiangx/suggestd/pkg/normalize"
)

// Tier floors. A fuzzy score stays below 2 (blend <= 1, bonus < 1) and a
// prefix score below 3, so tiers never overlap. Within the exact tier an item
// spelled exactly like the term gets verbatimBonus, so "Réunion" beats
// "Reunion" for the query "Réunion".
const (
	exactTier         = 4.0
	prefixTier        = 2.0
	maxSubstringBonus = 0.99
	verbatimBonus     = 0.5
)

// query is a normalized search term with everything scoring needs.
type query struct {
	raw   string
	text  string
	runes []rune
	words int
	grams []string
	short bool
}

func (idx *Index) newQuery(term, normalized string) query {
	grams, short := queryGrams(normalized, idx.width)
	return query{
		raw:   strings.TrimSpace(term),
		text:  normalized,
		runes: []rune(normalized),
		words: len(normalize.Fields(normalized)),
		grams: grams,
		short: short,
	}
}

// scoreFuzzy ranks a normalized candidate against q. shared is the number of
// query grams the candidate contains.
func (idx *Index) scoreFuzzy(q query, cand string, shared int) float64 {
	if cand == q.text {
		return exactTier
	}
	if strings.HasPrefix(cand, q.text) {
		closeness := float64(len(q.runes)) / float64(runeLen(cand))
		return prefixTier + 0.5*idx.blend(q, cand, shared) + 0.5*closeness
	}

	score := idx.blend(q, cand, shared)
	if strings.Contains(cand, q.text) {
		score += idx.weights.Substring
	}
	return score
}

// verbatim lifts an exact-tier score when item is spelled like the raw term.
func verbatim(q query, item string, score float64) float64 {
	if score == exactTier && strings.TrimSpace(item) == q.raw {
		return score + verbatimBonus
	}
	return score
}

// scoreLiteral ranks candidates for the simple strategy. Only literal
// substring hits are kept.
func scoreLiteral(q query, cand string) (float64, bool) {
	switch {
	case cand == q.text:
		return exactTier, true
	case strings.HasPrefix(cand, q.text):
		return prefixTier, true
	case strings.Contains(cand, q.text):
		return 1, true
	}
	return 0, false
}

// blend mixes the n-gram overlap ratio with the edit similarity. Result is in [0, 1].
func (idx *Index) blend(q query, cand string, shared int) float64 {
	overlap := 0.0
	if len(q.grams) > 0 {
		overlap = float64(shared) / float64(len(q.grams))
	}
	if overlap > 1 {
		overlap = 1
	}

	w := idx.weights
	total := w.Overlap + w.Edit
	if total == 0 || w.Edit == 0 {
		return overlap
	}
	return (w.Overlap*overlap + w.Edit*idx.editSimilarity(q, cand)) / total
}

// editSimilarity compares the query with the whole candidate and with every
// run of candidate words as long as the query, also against their leading
// runes so incomplete input with a typo still scores. Distances above the cap
// give zero similarity.
func (idx *Index) editSimilarity(q query, cand string) float64 {
	best := 0.0
	consider := func(w []rune) {
		if s := similarity(q.runes, w, idx.editCap); s > best {
			best = s
		}
		if len(w) > len(q.runes) {
			if s := similarity(q.runes, w[:len(q.runes)], idx.editCap); s > best {
				best = s
			}
		}
	}

	consider([]rune(cand))
	words := strings.Split(cand, " ")
	if len(words) > q.words {
		for i := 0; i+q.words <= len(words) && best < 1; i++ {
			consider([]rune(strings.Join(words[i:i+q.words], " ")))
		}
	}
	return best
}

func similarity(a, b []rune, limit int) float64 {
	d := osaDistance(a, b, limit)
	if d > limit {
		return 0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(d)/float64(longest)
}

// osaDistance returns the optimal string alignment (restricted
// Damerau-Levenshtein) distance between a and b: insertions, deletions,
// substitutions and adjacent transpositions each cost 1. Once the distance is
// known to exceed limit it returns limit+1.
func osaDistance(a, b []rune, limit int) int {
	la, lb := len(a), len(b)
	if diff := la - lb; diff > limit || -diff > limit {
		return limit + 1
	}
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev2, prev, curr = prev, curr, prev2
	}

	if prev[lb] > limit {
		return limit + 1
	}
	return prev[lb]
}
