// Package main is the entry point for the bike sharing dashboard TUI.
// It loads configuration, starts the services and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/metrics"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/filters"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/segments"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/version"
)

const shutdownTimeout = 3 * time.Second

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	exportFormat, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return fmt.Errorf("invalid EXPORT_FORMAT: %w", err)
	}

	closeLog, err := logger.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	logger.Info("starting", "version", version.GetVersion(), "data", cfg.DataPath)

	// Loads the dataset and starts the file watcher.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, svcManager.Metrics())
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	model := app.NewModel(svcManager)

	state := model.GetState()
	dash := dashboard.New(state)
	dash.SetFormat(exportFormat)
	model.SetTabs([]app.Tab{
		dash,
		segments.New(state),
		filters.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// Keep the session's filters for the next start.
	if !state.IsInitialLoading() {
		if err := svcManager.SaveFilters(state.GetSpec()); err != nil {
			logger.Warn("failed to save filters", "error", err)
		}
	}

	return nil
}

func printUsage() {
	fmt.Println(`Bike Sharing Dashboard - interactive filters and aggregates over rental data

Usage:
  bsd [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, Segments, Filters, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Move / scroll
  h/l, Left/Right Step the selected date by one day (Filters)
  Space           Toggle the selected option (Filters)
  s / Enter / d   Save, apply and delete presets (Filters)
  R               Reset filters
  e / f           Export the dashboard / change export format
  r               Reload the dataset
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  BIKE_DATA_PATH     Rental CSV file (default: merged_bike_data_cleaned.csv)
  DATABASE_PATH      SQLite database for presets and load history
  EXPORT_DIR         Directory for exported files (default: exports)
  EXPORT_FORMAT      Initial export format: json, yaml, csv or png (default: json)
  WATCH_DATA         Reload when the CSV changes (default: true)
  RELOAD_DEBOUNCE    Delay before reloading a changed CSV (default: 200ms)
  NOTIFY_ON_RELOAD   Desktop notification after a reload (default: false)
  METRICS_ADDR       Serve Prometheus metrics on this address, e.g. :9090
  LOG_LEVEL          debug, info, warn or error (default: info)
  LOG_FILE           Write logs to this file

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/bikeshare-tui/.env
  - Parent directory`)
}
