// Package services wires the dataset, engine, persistence, export and metrics
// layers together for the TUI.
package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/jonboulle/clockwork"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/dataset"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/engine"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/metrics"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

const (
	// LastFiltersPreset is the preset name under which the session's filters are kept.
	LastFiltersPreset = "last"
	// lastBasisPreset records the dataset shape the last filters were made against.
	lastBasisPreset = "last-basis"
)

type (
	// DatasetReloadedEvent is emitted when the CSV changed on disk and was reloaded.
	DatasetReloadedEvent struct {
		Dataset  *models.Dataset
		Duration time.Duration
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// Result is the outcome of one recomputation. Empty is set when no record
// survived the filters, including the tier step; Dashboard is nil in that case.
type Result struct {
	Spec      models.FilterSpec
	Dashboard *models.Dashboard
	Empty     bool
	Duration  time.Duration
}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the clock used for load times, presets and export names.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	clock       clockwork.Clock
	notifier    Notifier
	dataset     *dataset.Service
	database    *db.DB
	metrics     *metrics.Metrics
	exporter    *export.Exporter
	stopChan    chan struct{}
	stopOnce    sync.Once
	subscribers []chan<- ServiceEvent
}

// NewManager opens the database, loads the dataset and starts routing events.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
		notifier: func(title, body string) error { return beeep.Notify(title, body, "") },
		metrics:  metrics.New(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	m.compactHistory()

	m.dataset, err = dataset.New(cfg.DataPath, dataset.Options{
		Watch:    cfg.WatchData,
		Debounce: cfg.ReloadDebounce,
		Clock:    m.clock,
	})
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	m.exporter = export.New(cfg.ExportDir, m.clock)

	// dataset.New queues EventLoaded before returning, so the initial load is
	// recorded before any caller can ask for the history.
	m.handleDatasetEvent(<-m.dataset.Events())

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the dataset service to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.dataset.Events():
			m.handleDatasetEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleDatasetEvent(event dataset.Event) {
	switch event.Type {
	case dataset.EventLoaded, dataset.EventReloaded:
		m.metrics.ObserveReload(event.Dataset.Len(), nil)
		m.recordLoad(event.Dataset, event.Duration)

		if event.Type == dataset.EventLoaded {
			return
		}

		if m.cfg.NotifyOnReload {
			body := fmt.Sprintf("%d rows loaded from %s", event.Dataset.Len(), filepath.Base(event.Dataset.Path))
			if err := m.notifier("Bike dataset reloaded", body); err != nil {
				logger.Warn("desktop notification failed", "error", err)
			}
		}

		m.broadcast(DatasetReloadedEvent{
			Dataset:  event.Dataset,
			Duration: event.Duration,
		})

	case dataset.EventError:
		m.metrics.ObserveReload(0, event.Error)
		m.broadcast(ErrorEvent{
			Service: "dataset",
			Error:   event.Error,
		})
	}
}

func (m *Manager) recordLoad(ds *models.Dataset, elapsed time.Duration) {
	entry := &models.LoadEntry{
		Path:       ds.Path,
		Rows:       ds.Len(),
		DurationMs: elapsed.Milliseconds(),
		LoadedAt:   ds.LoadedAt,
	}
	if err := m.database.InsertLoad(entry); err != nil {
		logger.Error("failed to record dataset load", "error", err)
	}
}

// compactHistory drops old load entries and reclaims the space they used.
func (m *Manager) compactHistory() {
	deleted, err := m.database.PruneLoads(db.MaxLoadHistory)
	if err != nil {
		logger.Warn("failed to prune load history", "error", err)
		return
	}
	if deleted == 0 {
		return
	}
	logger.Debug("pruned load history", "deleted", deleted)
	if err := m.database.Vacuum(); err != nil {
		logger.Warn("failed to vacuum database", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
// It yields nil once the channel is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Dataset returns the current snapshot.
func (m *Manager) Dataset() *models.Dataset {
	return m.dataset.Current()
}

// Reload re-reads the dataset file now.
func (m *Manager) Reload() error {
	_, err := m.dataset.Reload()
	return err
}

// Compute filters and aggregates the current snapshot. A selection that
// matches nothing is reported through Result.Empty, not as an error.
func (m *Manager) Compute(spec models.FilterSpec) (*Result, error) {
	ds := m.dataset.Current()
	start := m.clock.Now()

	dash, err := engine.Compute(ds.Records, spec)
	elapsed := m.clock.Since(start)

	result := &Result{Spec: spec.Clone(), Duration: elapsed}
	switch {
	case errors.Is(err, engine.ErrEmptyResultSet):
		result.Empty = true
	case err != nil:
		return nil, err
	case dash.Records == 0:
		// Every record was cut by the tier selection.
		result.Empty = true
	default:
		result.Dashboard = dash
	}

	m.metrics.ObserveRecompute(elapsed, result.Empty)
	logger.Debug("recomputed dashboard", "records", ds.Len(), "empty", result.Empty, "elapsed", elapsed)
	return result, nil
}

// SaveFilters persists spec as the session's last filters, together with the
// date span and labels of the dataset they were made against.
func (m *Manager) SaveFilters(spec models.FilterSpec) error {
	if err := m.savePreset(LastFiltersPreset, spec); err != nil {
		return err
	}
	return m.savePreset(lastBasisPreset, models.DefaultFilterSpec(m.dataset.Current()))
}

// LoadFilters returns the last saved filters rebased onto the current dataset,
// or nil when none were saved.
func (m *Manager) LoadFilters() (*models.FilterSpec, error) {
	p, err := m.database.GetPreset(LastFiltersPreset)
	if errors.Is(err, db.ErrPresetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	basis := models.FilterSpec{Weather: p.Spec.Weather, Seasons: p.Spec.Seasons}
	b, err := m.database.GetPreset(lastBasisPreset)
	switch {
	case err == nil:
		basis = b.Spec
	case !errors.Is(err, db.ErrPresetNotFound):
		return nil, err
	}

	spec := p.Spec.RebaseFrom(basis, m.dataset.Current())
	return &spec, nil
}

// SavePreset stores spec under name.
func (m *Manager) SavePreset(name string, spec models.FilterSpec) error {
	if isReserved(name) {
		return fmt.Errorf("preset name %q is reserved", name)
	}
	return m.savePreset(name, spec)
}

func (m *Manager) savePreset(name string, spec models.FilterSpec) error {
	return m.database.SavePreset(name, spec, m.clock.Now())
}

// Presets returns the user's saved presets, newest first. The session's last
// filters are not included.
func (m *Manager) Presets() ([]models.Preset, error) {
	all, err := m.database.ListPresets()
	if err != nil {
		return nil, err
	}
	presets := all[:0]
	for _, p := range all {
		if !isReserved(p.Name) {
			presets = append(presets, p)
		}
	}
	return presets, nil
}

func isReserved(name string) bool {
	return name == LastFiltersPreset || name == lastBasisPreset
}

// DeletePreset removes a saved preset.
func (m *Manager) DeletePreset(name string) error {
	return m.database.DeletePreset(name)
}

// Export writes a computed dashboard and returns the created files.
func (m *Manager) Export(format export.Format, result *Result) ([]string, error) {
	if result == nil || result.Empty {
		return nil, export.ErrNothingToExport
	}
	paths, err := m.exporter.Write(format, result.Dashboard)
	if err != nil {
		return nil, err
	}
	logger.Info("dashboard exported", "format", format, "files", len(paths))
	return paths, nil
}

// LoadHistory returns the most recent dataset loads.
func (m *Manager) LoadHistory(limit int) ([]models.LoadEntry, error) {
	return m.database.RecentLoads(limit)
}

// Metrics returns the manager's metrics.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error
	m.stopOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.dataset != nil {
			if err := m.dataset.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
