// Package suggest is the core, answering approximate term lookups against a dataset through an n-gram index.
package suggest

// Suggester defines the interface for approximate match engines
type Suggester interface {
	// Suggest returns up to k ranked candidates for a term
	Suggest(term string, k int) ([]Candidate, error)

	// Lookup is Suggest with an explicit strategy
	Lookup(term string, k int, strategy Strategy) ([]Candidate, error)

	// Stats returns statistics about the index
	Stats() map[string]int
}

var _ Suggester = (*Index)(nil)
