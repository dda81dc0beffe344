package suggest

// DefaultLimit is the number of candidates returned when no limit is given.
const DefaultLimit = 10

// DefaultEditCap bounds the edit distance considered a plausible typo.
const DefaultEditCap = 3

// Weights tunes the fuzzy blend used below the exact and prefix tiers.
//
// Overlap and Edit are relative weights of the n-gram overlap ratio and the
// edit similarity. Substring is added when the query occurs literally in the
// candidate; it is clamped below 1 so it can never lift a candidate into the
// prefix tier.
type Weights struct {
	Overlap   float64
	Edit      float64
	Substring float64
}

// DefaultWeights are the weights validated by the package tests.
var DefaultWeights = Weights{
	Overlap:   0.5,
	Edit:      0.5,
	Substring: 0.5,
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithGramWidth sets the n-gram width. Widths below 1 are ignored.
func WithGramWidth(width int) Option {
	return func(idx *Index) {
		if width >= 1 {
			idx.width = width
		}
	}
}

// WithEditCap sets the edit distance above which a candidate gets no edit
// similarity. Negative caps are ignored.
func WithEditCap(limit int) Option {
	return func(idx *Index) {
		if limit >= 0 {
			idx.editCap = limit
		}
	}
}

// WithWeights sets the scoring weights. Negative weights are treated as zero.
func WithWeights(w Weights) Option {
	return func(idx *Index) {
		idx.weights = sanitizeWeights(w)
	}
}

func sanitizeWeights(w Weights) Weights {
	if w.Overlap < 0 {
		w.Overlap = 0
	}
	if w.Edit < 0 {
		w.Edit = 0
	}
	if w.Substring < 0 {
		w.Substring = 0
	}
	if w.Substring > maxSubstringBonus {
		w.Substring = maxSubstringBonus
	}
	return w
}
