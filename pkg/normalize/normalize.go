// Package normalize folds dataset items and queries into the form used for matching.
//
// A normalized string is case folded, stripped of accents and punctuation and
// has its whitespace collapsed to single spaces. It is only ever used for
// matching; callers always get the original item text back.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transformers and casers keep state between calls, so each goroutine
// borrows its own chain from the pool.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
			cases.Fold(),
		)
	},
}

// String returns the normalized form of s.
func String(s string) string {
	if s == "" {
		return ""
	}

	t := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(t, s)
	foldPool.Put(t)
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case isDropped(r):
			// joined to its neighbours: "o'neil" -> "oneil"
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// Fields returns the words of the normalized form of s.
func Fields(s string) []string {
	n := String(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// isDropped reports whether r is removed outright rather than treated as a
// word separator.
func isDropped(r rune) bool {
	switch r {
	case '\'', '"', '`', '(', ')', '[', ']', '{', '}',
		'‘', '’', '“', '”':
		return true
	}
	return false
}
