package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/page"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/bastiangx/suggestd/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Resolver answers dataset queries.
type Resolver interface {
	Resolve(q resolver.Query) (resolver.Result, error)
}

// Catalog lists datasets and looks them up by name.
type Catalog interface {
	List() []dataset.Info
	Get(name string) (*registry.Entry, error)
}

// Server handles IPC for dataset suggestions
type Server struct {
	resolver Resolver
	catalog  Catalog
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(res Resolver, catalog Catalog, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		resolver: res,
		catalog:  catalog,
		decoder:  msgpack.NewDecoder(bufio.NewReader(r)),
		writer:   bw,
		encoder:  msgpack.NewEncoder(bw),
	}
}

// Start writes the ready banner and serves requests until the input ends.
// A message that is valid msgpack but not a request is answered with an error
// and skipped; a corrupt stream stops the server.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")

	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}

		if err := s.handleRequest(raw); err != nil {
			return err
		}
	}
}

// handleRequest processes one raw message. Only write failures are returned.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	s.requests++

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", 400)
	}

	switch req.Action {
	case "":
		return s.handleQuery(req)
	case "list":
		return s.send(ListResponse{ID: req.ID, Status: "ok", Datasets: s.catalog.List()})
	case "stats":
		return s.handleStats(req)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleQuery(req Request) error {
	if req.Dataset == "" {
		log.Debug("Dataset is empty in request")
		return s.sendError(req.ID, "missing 'd' parameter", 400)
	}

	res, err := s.resolver.Resolve(resolver.Query{
		Dataset:  req.Dataset,
		Term:     req.Query,
		Start:    req.Start,
		Limit:    req.Limit,
		Strategy: req.Strategy,
	})
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeFor(err))
	}

	resp := Response{
		ID:        req.ID,
		TimeTaken: res.Took.Microseconds(),
	}
	if res.IsSuggestion() {
		resp.Matches = res.Matches()
		resp.Scores = make([]float64, len(res.Candidates))
		for i, c := range res.Candidates {
			resp.Scores[i] = c.Score
		}
		resp.Count = len(resp.Matches)
	} else {
		resp.Items = res.Page.Items
		resp.Count = res.Page.Count
		resp.Start = res.Page.Start
		resp.Previous = res.Page.Previous
		resp.Next = res.Page.Next
	}
	return s.send(resp)
}

func (s *Server) handleStats(req Request) error {
	entry, err := s.catalog.Get(req.Dataset)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeFor(err))
	}
	return s.send(StatsResponse{
		ID:     req.ID,
		Status: "ok",
		Info:   entry.Info,
		Stats:  entry.Index.Stats(),
	})
}

// codeFor maps resolver errors to HTTP-like status codes.
func codeFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrDatasetNotFound):
		return 404
	case errors.Is(err, page.ErrInvalidStart),
		errors.Is(err, page.ErrInvalidSize),
		errors.Is(err, suggest.ErrUnknownStrategy),
		errors.Is(err, resolver.ErrQueryTooLong):
		return 400
	default:
		return 500
	}
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Marshaling response: %v", err)
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	log.Debugf("Request %q failed (%d): %s", id, code, message)
	return s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
