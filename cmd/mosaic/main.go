package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/grid"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/store"
	"github.com/mmcdole/mosaic/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type cliOptions struct {
	configFile   string
	batchFile    string
	clearHistory bool
	writeConfig  bool
}

func main() {
	var showVersion bool
	var opts cliOptions
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/mosaic/config.yaml)")
	flag.StringVar(&opts.batchFile, "batch", "", "add the URLs in this file (- for stdin) and print the board")
	flag.BoolVar(&opts.clearHistory, "clear-history", false, "forget every remembered URL and exit")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "write the effective configuration to the config file and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("mosaic %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		logger = adapter.NullLogger()
	} else {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting mosaic", "version", Version)

	if opts.writeConfig {
		return writeConfig(cfg, opts.configFile)
	}
	if opts.clearHistory {
		return clearHistory(cfg, logger)
	}

	historySvc, historyCloser := openHistory(cfg, logger)
	if historyCloser != nil {
		defer historyCloser.Close()
	}

	boardOpts := grid.Options{
		InitialTotal: cfg.Grid.InitialTotal,
		Seed:         seedImages(cfg.Grid.SeedURLs),
		Delay:        cfg.Grid.PlacementDelay,
		Rand:         grid.NewRand(cfg.Grid.Seed),
		Logger:       logger,
	}

	if opts.batchFile != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return runBatchMode(opts.batchFile, boardOpts, historySvc)
	}
	return runTUI(cfg, boardOpts, historySvc, logger)
}

func runTUI(cfg *adapter.Config, boardOpts grid.Options, historySvc *service.HistoryService, logger *slog.Logger) error {
	sched := tui.NewProgramScheduler()
	board := grid.NewController(sched, boardOpts)
	defer board.Close()

	model := tui.NewModel(board, historySvc, cfg.UI)
	p := tea.NewProgram(model, tea.WithAltScreen())
	sched.Attach(p)

	logger.Info("starting TUI", "cells", board.Total(), "seeded", board.Filled())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func runBatchMode(file string, boardOpts grid.Options, historySvc *service.HistoryService) error {
	in := io.Reader(os.Stdin)
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := runBatch(ctx, in, boardOpts, historySvc)
	if err != nil {
		return err
	}

	width := 0
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}
	return printBatchResult(os.Stdout, result, width)
}

// openHistory opens the URL history, falling back to an in-memory store
// when the database cannot be opened. It returns nil when history is off.
func openHistory(cfg *adapter.Config, logger *slog.Logger) (*service.HistoryService, io.Closer) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	st, err := store.NewHistoryStore(cfg.HistoryPath(), cfg.History.Limit)
	if err != nil {
		logger.Warn("history database unavailable, keeping history in memory", "path", cfg.HistoryPath(), "error", err)
		st, _ = store.NewHistoryStore("", cfg.History.Limit)
	}
	return service.NewHistoryService(st, logger), st
}

// clearHistory wipes the history database. It never falls back to an
// in-memory store.
func clearHistory(cfg *adapter.Config, logger *slog.Logger) error {
	dir := cfg.HistoryPath()
	if dir == "" {
		return fmt.Errorf("clearing history: %w", domain.ErrHistoryUnavailable)
	}
	st, err := store.NewHistoryStore(dir, cfg.History.Limit)
	if err != nil {
		return fmt.Errorf("clearing history: %w: %w", domain.ErrHistoryUnavailable, err)
	}
	defer st.Close()

	if err := service.NewHistoryService(st, logger).Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	logger.Info("history cleared", "path", dir)
	return nil
}

// writeConfig saves cfg to configFile, or to the default location when no
// file was given
func writeConfig(cfg *adapter.Config, configFile string) error {
	if configFile != "" {
		return adapter.SaveConfigAs(cfg, configFile)
	}
	return adapter.SaveConfig(cfg)
}

// seedImages turns configured URLs into board records, skipping blanks
func seedImages(urls []string) []domain.Image {
	var out []domain.Image
	for _, u := range urls {
		img := domain.NewImage(u)
		if img.URL == "" {
			continue
		}
		out = append(out, img)
	}
	return out
}
