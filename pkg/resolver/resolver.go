// Package resolver turns a dataset request into either ranked suggestions or
// a page of items. It is shared by the HTTP API, the IPC server and the CLI.
package resolver

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/suggestd/pkg/page"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/suggest"
)

// ErrQueryTooLong is returned for a term longer than Options.MaxQueryLen runes.
var ErrQueryTooLong = errors.New("query too long")

// Lookup finds a registered dataset by name.
type Lookup interface {
	Get(name string) (*registry.Entry, error)
}

// Query is a single request against a dataset. A non-empty Term asks for
// suggestions; otherwise the page beginning at Start is returned. A nil Start
// means the first page; any given value, 0 included, is passed to the
// paginator as is.
type Query struct {
	Dataset  string
	Term     string
	Start    *int
	Limit    int
	Strategy string
}

// StartAt returns a Start value for n.
func StartAt(n int) *int {
	return &n
}

// Result holds either Candidates or Page, never both.
type Result struct {
	Dataset    string
	Candidates []suggest.Candidate
	Page       *page.Page
	Took       time.Duration
}

// IsSuggestion reports whether the result answers a term.
func (r Result) IsSuggestion() bool {
	return r.Page == nil
}

// Matches returns the item text of the candidates.
func (r Result) Matches() []string {
	return suggest.Items(r.Candidates)
}

// Options bounds and defaults requests.
type Options struct {
	PageSize     int
	DefaultLimit int
	MaxLimit     int
	MaxQueryLen  int
}

// DefaultOptions are used for any zero field passed to New.
var DefaultOptions = Options{
	PageSize:     page.DefaultSize,
	DefaultLimit: suggest.DefaultLimit,
	MaxLimit:     100,
	MaxQueryLen:  256,
}

// Resolver answers queries against a Lookup.
type Resolver struct {
	lookup Lookup
	opts   Options
}

// New creates a Resolver. Zero option fields take their DefaultOptions value.
func New(lookup Lookup, opts Options) *Resolver {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions.PageSize
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultOptions.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultOptions.MaxLimit
	}
	if opts.MaxQueryLen <= 0 {
		opts.MaxQueryLen = DefaultOptions.MaxQueryLen
	}
	return &Resolver{lookup: lookup, opts: opts}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve runs q. Unknown datasets fail with registry.ErrDatasetNotFound, bad
// starts with page.ErrInvalidStart and bad strategies with
// suggest.ErrUnknownStrategy. A term that normalizes to nothing yields no
// candidates rather than an error.
func (r *Resolver) Resolve(q Query) (Result, error) {
	begin := time.Now()
	entry, err := r.lookup.Get(q.Dataset)
	if err != nil {
		return Result{}, err
	}
	res := Result{Dataset: q.Dataset}

	if q.Term != "" {
		strategy, err := suggest.ParseStrategy(q.Strategy)
		if err != nil {
			return Result{}, err
		}
		if utf8.RuneCountInString(q.Term) > r.opts.MaxQueryLen {
			return Result{}, fmt.Errorf("%w: limit is %d characters", ErrQueryTooLong, r.opts.MaxQueryLen)
		}
		candidates, err := entry.Index.Lookup(q.Term, r.limit(q.Limit), strategy)
		switch {
		case errors.Is(err, suggest.ErrEmptyQuery):
			candidates = []suggest.Candidate{}
		case err != nil:
			return Result{}, err
		}
		res.Candidates = candidates
		res.Took = time.Since(begin)
		return res, nil
	}

	start := 1
	if q.Start != nil {
		start = *q.Start
	}
	p, err := page.Paginate(entry.Dataset, start, r.opts.PageSize)
	if err != nil {
		return Result{}, err
	}
	res.Page = &p
	res.Took = time.Since(begin)
	return res, nil
}

func (r *Resolver) limit(k int) int {
	if k <= 0 {
		return r.opts.DefaultLimit
	}
	return min(k, r.opts.MaxLimit)
}
