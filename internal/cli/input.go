// Package cli handles cmd line input for querying datasets interactively, mainly for DBG and testing
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/suggestd/internal/logger"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Resolver answers dataset queries.
type Resolver interface {
	Resolve(q resolver.Query) (resolver.Result, error)
}

var itemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads terms line by line and prints suggestions for the
// current dataset. Lines starting with ':' are commands:
//
//	:page N       show the page starting at position N
//	:use NAME     switch dataset
//	:strategy S   switch matching strategy (guess, simple)
type InputHandler struct {
	resolver     Resolver
	dataset      string
	strategy     string
	suggestLimit int
	requestCount int
	out          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(res Resolver, dataset string, limit int, out io.Writer) *InputHandler {
	return &InputHandler{
		resolver:     res,
		dataset:      dataset,
		suggestLimit: limit,
		out:          logger.NewWithConfig(out, "", log.InfoLevel, false, false, log.TextFormatter),
	}
}

// Start runs the prompt loop until in is exhausted. Reaching EOF is not an error.
func (h *InputHandler) Start(in io.Reader) error {
	h.out.Print("suggestd CLI")
	h.out.Printf("dataset %q: type a term and press Enter (:page N, :use NAME, :strategy S, Ctrl+C to exit)", h.dataset)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
	return scanner.Err()
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		h.handleCommand(cmd)
		return
	}

	res, err := h.resolver.Resolve(resolver.Query{
		Dataset:  h.dataset,
		Term:     line,
		Limit:    h.suggestLimit,
		Strategy: h.strategy,
	})
	if err != nil {
		h.out.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for term '%s'", res.Took, line)

	if len(res.Candidates) == 0 {
		h.out.Warnf("No suggestions found for '%s'", line)
		return
	}
	h.out.Printf("Found %d suggestions for '%s':", len(res.Candidates), line)
	for i, c := range res.Candidates {
		h.out.Printf("%2d. %-40s (score: %.3f, pos: %s)", i+1, itemStyle.Render(c.Item), c.Score, humanize.Comma(int64(c.Position+1)))
	}
}

func (h *InputHandler) handleCommand(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "page":
		var start *int
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil {
				h.out.Errorf("invalid page start %q", arg)
				return
			}
			start = resolver.StartAt(n)
		}
		h.showPage(start)
	case "use":
		if arg == "" {
			h.out.Errorf("usage: :use NAME")
			return
		}
		h.dataset = arg
		h.out.Printf("dataset %q", arg)
	case "strategy":
		h.strategy = arg
		h.out.Printf("strategy %q", arg)
	default:
		h.out.Errorf("unknown command %q", name)
	}
}

func (h *InputHandler) showPage(start *int) {
	res, err := h.resolver.Resolve(resolver.Query{Dataset: h.dataset, Start: start})
	if err != nil {
		h.out.Errorf("%v", err)
		return
	}
	p := res.Page
	if p.Count == 0 {
		h.out.Warnf("No items from position %s (%s in %q)", humanize.Comma(int64(p.Start)), humanize.Comma(int64(p.Total)), h.dataset)
	} else {
		h.out.Printf("Items %s-%s of %s:",
			humanize.Comma(int64(p.Start)),
			humanize.Comma(int64(p.Start+p.Count-1)),
			humanize.Comma(int64(p.Total)))
	}
	for i, item := range p.Items {
		h.out.Printf("%6s. %s", humanize.Comma(int64(p.Start+i)), itemStyle.Render(item))
	}
	if p.Previous != nil {
		h.out.Printf("previous: :page %d", *p.Previous)
	}
	if p.Next != nil {
		h.out.Printf("next: :page %d", *p.Next)
	}
}

// Summary returns a one-line description of the session so far.
func (h *InputHandler) Summary() string {
	return fmt.Sprintf("%s requests on %q", humanize.Comma(int64(h.requestCount)), h.dataset)
}
