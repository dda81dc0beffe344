// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the suggestd server and CLI [DBG] application.

suggestd serves named string datasets. A dataset can be paged through in
stable, fixed-size pages, or queried with a possibly misspelled term to get
ranked approximate matches. Matching uses a padded character n-gram index,
so "federaiton" still finds "Federation".

# Usage

Serve every dataset in ./data over HTTP on the configured address:

	suggestd

Use a custom data directory, address and debug logging:

	suggestd -data /srv/datasets -addr :8080 -d

Query a dataset interactively:

	suggestd -c -set breakfast -limit 5

Speak MessagePack over stdin/stdout instead of HTTP:

	suggestd -ipc

# Datasets

Each file in the data directory is one dataset named after the file without
its extension. JSON files hold an array of strings, YAML files a sequence of
strings, and .txt files one item per line. Files that fail to load are logged
and skipped.

# Configuration

Runtime configuration lives in suggestd.toml in the user config directory and
is created with defaults when missing:

	[server]
	addr = ":5000"
	default_limit = 10
	max_limit = 100
	page_size = 100
	rate_limit = 50.0
	rate_burst = 100
	max_query_len = 256

	[data]
	dir = "data"
	concurrency = 0

	[suggest]
	ngram_width = 3
	edit_cap = 3
	overlap_weight = 0.5
	edit_weight = 0.5
	substring_bonus = 0.5
	cache_size = 0

	[cli]
	default_limit = 10

SUGGESTD_* environment variables (also read from a .env file) override the
file, and flags override both.

# HTTP API

	GET /api                      list datasets
	GET /api/{name}/?start=N      page starting at position N (1-based)
	GET /api/{name}/?q=TERM       ranked matches for TERM
	GET /healthz                  liveness
	GET /metrics                  Prometheus metrics

Page responses carry previous and next cursor URLs, null at either end.

# IPC Protocol

With -ipc, requests and responses are MessagePack maps on stdin and stdout.
Logs go to stderr.

	{"id": "1", "d": "breakfast", "q": "egs", "l": 5}
	{"id": "1", "m": ["Eggs", ...], "r": [2.9, ...], "c": 5, "t": 41}

# Command Line Flags

	-data string     directory containing dataset files
	-addr string     HTTP listen address
	-config string   path to a suggestd.toml
	-d               debug logging
	-c               interactive CLI mode
	-set string      dataset used by the CLI (default: first loaded)
	-limit int       number of suggestions in CLI mode
	-ipc             MessagePack IPC mode on stdin/stdout
	-rebuild-config  rewrite the default suggestd.toml and exit
	-version         print the version and exit
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/suggestd/internal/cli"
	"github.com/bastiangx/suggestd/internal/logger"
	"github.com/bastiangx/suggestd/internal/utils"
	"github.com/bastiangx/suggestd/pkg/api"
	"github.com/bastiangx/suggestd/pkg/config"
	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/bastiangx/suggestd/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

const (
	Version = "0.1.0"
	gh      = "https://github.com/bastiangx/suggestd"
)

// main only manages the flow; loading, matching and serving live in pkg/.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing dataset files (default from config)")
	addr := flag.String("addr", "", "HTTP listen address (default from config)")
	configPath := flag.String("config", "", "Path to a custom suggestd.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	setName := flag.String("set", "", "Dataset used in CLI mode (default: first loaded)")
	limit := flag.Int("limit", 0, "Number of suggestions to return in CLI mode (default from config)")
	ipcMode := flag.Bool("ipc", false, "Serve MessagePack requests on stdin/stdout instead of HTTP")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default suggestd.toml with built-in defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Wrote default config to %s", path)
		return
	}

	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Failed to read .env: %v", err)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *limit > 0 {
		cfg.CLI.DefaultLimit = *limit
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config (%s):\n%v", config.GetActiveConfigPath(activePath), err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activePath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolvedDataDir := utils.ResolveDataDir(cfg.Data.Dir)
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	reg, err := registry.Load(ctx, resolvedDataDir, cfg.RegistryOptions())
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}
	if reg.Len() == 0 {
		log.Warnf("No datasets (%s) found in %s", strings.Join(dataset.ListSupportedExtensions(), ", "), resolvedDataDir)
	}
	res := resolver.New(reg, cfg.ResolverOptions())

	switch {
	case *cliMode:
		runCLI(ctx, reg, res, *setName, cfg.CLI.DefaultLimit)
	case *ipcMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(res, reg, os.Stdin, os.Stdout)
		if err := srv.Start(); err != nil {
			log.Fatalf("IPC server error: %v", err)
		}
	default:
		showStartupInfo(resolvedDataDir, reg, cfg.Server.Addr)
		srv := api.NewServer(cfg.APIConfig(), res, reg)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}
}

func runCLI(ctx context.Context, reg *registry.Registry, res *resolver.Resolver, name string, limit int) {
	if name == "" {
		infos := reg.List()
		if len(infos) == 0 {
			log.Fatal("No datasets to query")
		}
		name = infos[0].Name
	}
	handler := cli.NewInputHandler(res, name, limit, os.Stderr)

	done := make(chan error, 1)
	go func() { done <- handler.Start(os.Stdin) }()

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		log.Debug(handler.Summary())
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "\nExiting...")
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ suggestd ] Pages and fuzzy-matches named datasets")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string, reg *registry.Registry, addr string) {
	var items int
	for _, info := range reg.List() {
		items += info.ItemCount
	}
	log.Infof("suggestd %s, pid [ %d ]", Version, os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("datasets: %d, items: %s", reg.Len(), humanize.Comma(int64(items)))
	log.Infof("listening on %s", addr)
}
