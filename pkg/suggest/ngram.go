package suggest

import "strings"

// DefaultGramWidth is the n-gram width used when none is configured.
const DefaultGramWidth = 3

// padRune marks the boundaries of a term. Normalized terms never start or end
// with a space, so padding grams only ever come from boundaries.
const padRune = ' '

// indexGrams returns the distinct padded n-grams of a normalized term, in
// order of first appearance. The term is padded with width-1 boundary runes on
// each side so every rune starts a gram and short terms still yield grams.
func indexGrams(term string, width int) []string {
	if term == "" {
		return nil
	}
	pad := strings.Repeat(string(padRune), width-1)
	padded := []rune(pad + term + pad)

	seen := make(map[string]struct{}, len(padded))
	grams := make([]string, 0, len(padded))
	for i := 0; i+width <= len(padded); i++ {
		g := string(padded[i : i+width])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		grams = append(grams, g)
	}
	return grams
}

// queryGrams extracts grams from a normalized query. A query shorter than the
// gram width is kept whole as a single gram; short is then true and the gram
// must be matched as a prefix of indexed grams.
func queryGrams(term string, width int) (grams []string, short bool) {
	if term == "" {
		return nil, false
	}
	if runeLen(term) < width {
		return []string{term}, true
	}
	return indexGrams(term, width), false
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
