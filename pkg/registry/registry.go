// Package registry discovers, loads and indexes every dataset in a data
// directory. A Registry never changes after Load returns.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ErrDatasetNotFound is returned when no dataset carries the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

// Entry is a loaded dataset with its index and listing metadata.
type Entry struct {
	Dataset *dataset.Dataset
	Index   suggest.Suggester
	Info    dataset.Info
}

// Options controls how datasets are loaded.
type Options struct {
	// Concurrency bounds the number of files loaded at once. Zero means GOMAXPROCS.
	Concurrency int
	// CacheSize wraps each index in a suggest.HotCache of that many entries when
	// positive. Zero leaves lookups lock-free.
	CacheSize int
	// IndexOptions are passed to suggest.NewIndex.
	IndexOptions []suggest.Option
}

// Registry maps dataset names to entries.
type Registry struct {
	entries map[string]*Entry
	infos   []dataset.Info
}

// Load reads every supported dataset file directly inside dir and builds its
// index. Files that cannot be read are logged and skipped. When two files share
// a name, the first in lexical path order wins.
func Load(ctx context.Context, dir string, opts Options) (*Registry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || !dataset.IsDatasetFile(de.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, de.Name()))
	}
	sort.Strings(paths)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	loaded := make([]*Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := loadEntry(path, opts)
			if err != nil {
				log.Warnf("Skipping dataset %s: %v", path, err)
				return nil
			}
			loaded[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []*Entry
	for _, e := range loaded {
		if e != nil {
			entries = append(entries, e)
		}
	}
	return newRegistry(entries), nil
}

func loadEntry(path string, opts Options) (*Entry, error) {
	begin := time.Now()
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	info, err := dataset.Describe(path, ds)
	if err != nil {
		return nil, err
	}

	var idx suggest.Suggester = suggest.NewIndex(ds, opts.IndexOptions...)
	if opts.CacheSize > 0 {
		idx = suggest.NewHotCache(idx, opts.CacheSize)
	}
	log.Debugf("Indexed %s: %d items in %v", ds.Name(), ds.Len(), time.Since(begin))
	return &Entry{Dataset: ds, Index: idx, Info: info}, nil
}

// New builds a registry from already loaded entries. Later duplicates of a
// name are dropped.
func New(entries ...*Entry) *Registry {
	return newRegistry(entries)
}

// FromDatasets indexes each dataset and registers it with a minimal Info.
func FromDatasets(opts Options, sets ...*dataset.Dataset) *Registry {
	entries := make([]*Entry, 0, len(sets))
	for _, ds := range sets {
		var idx suggest.Suggester = suggest.NewIndex(ds, opts.IndexOptions...)
		if opts.CacheSize > 0 {
			idx = suggest.NewHotCache(idx, opts.CacheSize)
		}
		entries = append(entries, &Entry{
			Dataset: ds,
			Index:   idx,
			Info:    dataset.Info{Name: ds.Name(), ItemCount: ds.Len()},
		})
	}
	return newRegistry(entries)
}

func newRegistry(entries []*Entry) *Registry {
	r := &Registry{entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		name := e.Dataset.Name()
		if _, dup := r.entries[name]; dup {
			log.Warnf("Duplicate dataset name %q from %s ignored", name, e.Info.Source)
			continue
		}
		r.entries[name] = e
		r.infos = append(r.infos, e.Info)
	}
	slices.SortFunc(r.infos, func(a, b dataset.Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return r
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (*Entry, error) {
	if e, ok := r.entries[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
}

// List returns the Info of every dataset sorted by name.
func (r *Registry) List() []dataset.Info {
	out := make([]dataset.Info, len(r.infos))
	copy(out, r.infos)
	return out
}

// Len returns the number of registered datasets.
func (r *Registry) Len() int {
	return len(r.entries)
}
