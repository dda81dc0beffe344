package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/page"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/bastiangx/suggestd/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

// datasetListing is a dataset Info with the URL of its resource.
type datasetListing struct {
	dataset.Info
	URL string `json:"url"`
}

// datasetResponse is the body of /api/{name}/. Suggestions fill Matches and
// leave the cursors and Start null; pages fill Items, Start and the cursors.
type datasetResponse struct {
	Previous *string  `json:"previous"`
	Next     *string  `json:"next"`
	Start    *int     `json:"start"`
	Matches  []string `json:"matches"`
	Items    []string `json:"items"`
	Count    int      `json:"count"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":   "ok",
		"datasets": len(s.lister.List()),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos := s.lister.List()
	listings := make([]datasetListing, 0, len(infos))
	for _, info := range infos {
		listings = append(listings, datasetListing{Info: info, URL: datasetURL(r, info.Name)})
	}
	respondJSON(w, listings)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	params := r.URL.Query()

	q := resolver.Query{
		Dataset:  name,
		Term:     params.Get("q"),
		Strategy: params.Get("s"),
	}
	var err error
	if q.Limit, err = intParam(params, "size"); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if params.Has("size") && q.Limit < 1 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("%w: %d", page.ErrInvalidSize, q.Limit))
		return
	}
	if q.Term == "" && params.Has("start") {
		start, err := intParam(params, "start")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		q.Start = resolver.StartAt(start)
	}

	res, err := s.resolver.Resolve(q)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Errorf("Resolving %s: %v", name, err)
		}
		respondError(w, status, err)
		return
	}

	if res.IsSuggestion() {
		matches := res.Matches()
		strategy := q.Strategy
		if strategy == "" {
			strategy = string(suggest.StrategyGuess)
		}
		metricMatches.WithLabelValues(strings.ToLower(strings.TrimSpace(strategy))).Observe(float64(len(matches)))
		respondJSON(w, datasetResponse{Matches: matches, Count: len(matches)})
		return
	}

	p := res.Page
	base := datasetURL(r, name)
	respondJSON(w, datasetResponse{
		Previous: cursorURL(base, p.Previous),
		Next:     cursorURL(base, p.Next),
		Start:    &p.Start,
		Items:    p.Items,
		Count:    p.Count,
	})
}

// statusFor maps resolver errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, page.ErrInvalidStart),
		errors.Is(err, page.ErrInvalidSize),
		errors.Is(err, suggest.ErrUnknownStrategy),
		errors.Is(err, resolver.ErrQueryTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// intParam parses an optional integer parameter. Absent means zero.
func intParam(params url.Values, key string) (int, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer, got %q", key, raw)
	}
	return v, nil
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func datasetURL(r *http.Request, name string) string {
	return baseURL(r) + "/api/" + url.PathEscape(name) + "/"
}

func cursorURL(base string, start *int) *string {
	if start == nil {
		return nil
	}
	u := base + "?start=" + strconv.Itoa(*start)
	return &u
}
