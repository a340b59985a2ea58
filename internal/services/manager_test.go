package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

const testCSV = `dteday,hr,cnt_day,cnt_hour,weathersit,season
2011-01-01,0,100,10,1,1
2011-01-01,1,100,20,1,1
2011-01-02,0,200,30,2,1
2011-01-03,0,300,40,1,2
2011-01-04,0,400,50,3,4
2011-01-05,0,500,60,1,4
`

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) notify(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	dataPath := filepath.Join(tmpDir, "bikes.csv")
	if err := os.WriteFile(dataPath, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return &config.Config{
		DataPath:       dataPath,
		DatabasePath:   filepath.Join(tmpDir, "test.db"),
		ExportDir:      filepath.Join(tmpDir, "exports"),
		ReloadDebounce: 20 * time.Millisecond,
	}
}

func newTestManager(t *testing.T, cfg *config.Config, opts ...Option) *Manager {
	t.Helper()
	mgr, err := NewManager(cfg, opts...)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func fullSpec(mgr *Manager) models.FilterSpec {
	return models.DefaultFilterSpec(mgr.Dataset())
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Metrics() == nil {
		t.Error("Metrics should be initialized")
	}
	if got := mgr.Dataset().Len(); got != 6 {
		t.Errorf("Dataset().Len() = %d, want 6", got)
	}
}

func TestNewManager_MissingDataset(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "missing.csv")

	if _, err := NewManager(cfg); err == nil {
		t.Error("NewManager should fail when the dataset cannot be loaded")
	}
}

func TestNewManager_RecordsInitialLoad(t *testing.T) {
	cfg := newTestConfig(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	mgr := newTestManager(t, cfg, WithClock(clock))

	loads, err := mgr.LoadHistory(10)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(loads) != 1 {
		t.Fatalf("Expected 1 load entry, got %d", len(loads))
	}
	if loads[0].Rows != 6 || loads[0].Path != cfg.DataPath {
		t.Errorf("Unexpected load entry: %+v", loads[0])
	}
	if !loads[0].LoadedAt.Equal(clock.Now()) {
		t.Errorf("LoadedAt = %v, want %v", loads[0].LoadedAt, clock.Now())
	}
}

func TestManager_Compute(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	result, err := mgr.Compute(fullSpec(mgr))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if result.Empty {
		t.Fatal("Expected a non-empty result")
	}
	if result.Dashboard.TotalDaily != 1600 {
		t.Errorf("TotalDaily = %d, want 1600", result.Dashboard.TotalDaily)
	}
	if result.Dashboard.TotalHourly != 210 {
		t.Errorf("TotalHourly = %d, want 210", result.Dashboard.TotalHourly)
	}
}

func TestManager_Compute_Empty(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	spec := fullSpec(mgr)
	spec.Seasons = nil

	result, err := mgr.Compute(spec)
	if err != nil {
		t.Fatalf("Compute should not fail on an empty selection: %v", err)
	}
	if !result.Empty {
		t.Error("Expected Empty result")
	}
	if result.Dashboard != nil {
		t.Error("Empty result should carry no dashboard")
	}
}

func TestManager_Compute_NoTiersSelected(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	spec := fullSpec(mgr)
	spec.Tiers = nil

	result, err := mgr.Compute(spec)
	if err != nil {
		t.Fatalf("Compute should not fail when no tier is selected: %v", err)
	}
	if !result.Empty {
		t.Error("Expected Empty result when every tier is deselected")
	}
	if result.Dashboard != nil {
		t.Error("Empty result should carry no dashboard")
	}
}

func TestManager_Compute_ResultOwnsSpec(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	spec := fullSpec(mgr)
	result, err := mgr.Compute(spec)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	spec.Weather[0] = "changed"
	if result.Spec.Weather[0] == "changed" {
		t.Error("Result.Spec should not alias the caller's spec")
	}
}

func TestManager_SaveAndLoadFilters(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	got, err := mgr.LoadFilters()
	if err != nil {
		t.Fatalf("LoadFilters failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Expected no saved filters, got %+v", got)
	}

	spec := fullSpec(mgr)
	spec.Tiers = []models.DemandTier{models.TierHigh}
	if err := mgr.SaveFilters(spec); err != nil {
		t.Fatalf("SaveFilters failed: %v", err)
	}

	got, err = mgr.LoadFilters()
	if err != nil {
		t.Fatalf("LoadFilters failed: %v", err)
	}
	if got == nil || len(got.Tiers) != 1 || got.Tiers[0] != models.TierHigh {
		t.Errorf("LoadFilters() = %+v, want High tier only", got)
	}
}

func TestManager_LoadFilters_RebasedOntoNewData(t *testing.T) {
	cfg := newTestConfig(t)

	first := newTestManager(t, cfg)
	spec := fullSpec(first)
	spec.ToggleWeather("Mist / Cloudy")
	if err := first.SaveFilters(spec); err != nil {
		t.Fatalf("SaveFilters failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	grown := testCSV + "2011-01-09,0,700,70,4,4\n2011-01-10,0,800,80,2,4\n"
	if err := os.WriteFile(cfg.DataPath, []byte(grown), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	second := newTestManager(t, cfg)
	got, err := second.LoadFilters()
	if err != nil {
		t.Fatalf("LoadFilters failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected saved filters")
	}

	wantEnd := time.Date(2011, 1, 10, 0, 0, 0, 0, time.UTC)
	if !got.End.Equal(wantEnd) {
		t.Errorf("End = %v, want it to follow the new max date %v", got.End, wantEnd)
	}
	if got.HasWeather("Mist / Cloudy") {
		t.Error("deselected label should stay deselected")
	}
	if !got.HasWeather("Heavy Rain / Snow / Fog") {
		t.Errorf("label new to the dataset should be selected: %v", got.Weather)
	}
}

func TestManager_Presets(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	if err := mgr.SavePreset("winter", fullSpec(mgr)); err != nil {
		t.Fatalf("SavePreset failed: %v", err)
	}
	if err := mgr.SaveFilters(fullSpec(mgr)); err != nil {
		t.Fatalf("SaveFilters failed: %v", err)
	}
	for _, name := range []string{LastFiltersPreset, lastBasisPreset} {
		if err := mgr.SavePreset(name, fullSpec(mgr)); err == nil {
			t.Errorf("Expected error for reserved preset name %q", name)
		}
	}
	presets, err := mgr.Presets()
	if err != nil {
		t.Fatalf("Presets failed: %v", err)
	}
	if len(presets) != 1 || presets[0].Name != "winter" {
		t.Fatalf("Presets() = %+v, want [winter]", presets)
	}

	if err := mgr.DeletePreset("winter"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	presets, _ = mgr.Presets()
	if len(presets) != 0 {
		t.Errorf("Expected no presets after delete, got %d", len(presets))
	}
}

func TestManager_Export(t *testing.T) {
	cfg := newTestConfig(t)
	mgr := newTestManager(t, cfg)

	result, err := mgr.Compute(fullSpec(mgr))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	paths, err := mgr.Export(export.FormatJSON, result)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(paths) != 1 || !strings.HasPrefix(paths[0], cfg.ExportDir) {
		t.Errorf("Export() paths = %v, want one file under %s", paths, cfg.ExportDir)
	}
}

func TestManager_Export_Empty(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	if _, err := mgr.Export(export.FormatCSV, &Result{Empty: true}); !errors.Is(err, export.ErrNothingToExport) {
		t.Errorf("Export(empty) error = %v, want ErrNothingToExport", err)
	}
	if _, err := mgr.Export(export.FormatCSV, nil); !errors.Is(err, export.ErrNothingToExport) {
		t.Errorf("Export(nil) error = %v, want ErrNothingToExport", err)
	}
}

func waitForServiceEvent(t *testing.T, ch <-chan ServiceEvent) ServiceEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for service event")
		return nil
	}
}

func TestManager_ReloadBroadcasts(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.NotifyOnReload = true
	notifier := &recordingNotifier{}
	mgr := newTestManager(t, cfg, WithNotifier(notifier.notify))

	ch, _ := mgr.Subscribe()

	if err := os.WriteFile(cfg.DataPath, []byte(testCSV+"2011-01-06,0,600,70,1,4\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	event, ok := waitForServiceEvent(t, ch).(DatasetReloadedEvent)
	if !ok {
		t.Fatal("Expected DatasetReloadedEvent")
	}
	if event.Dataset.Len() != 7 {
		t.Errorf("Reloaded dataset rows = %d, want 7", event.Dataset.Len())
	}
	if notifier.count() != 1 {
		t.Errorf("Expected 1 notification, got %d", notifier.count())
	}

	loads, _ := mgr.LoadHistory(10)
	if len(loads) != 2 {
		t.Errorf("Expected 2 load entries, got %d", len(loads))
	}
}

func TestManager_ReloadFailureKeepsSnapshot(t *testing.T) {
	cfg := newTestConfig(t)
	notifier := &recordingNotifier{}
	mgr := newTestManager(t, cfg, WithNotifier(notifier.notify))
	before := mgr.Dataset()

	ch, _ := mgr.Subscribe()

	if err := os.WriteFile(cfg.DataPath, []byte("broken\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mgr.Reload(); err == nil {
		t.Fatal("Reload should fail for a broken file")
	}

	event, ok := waitForServiceEvent(t, ch).(ErrorEvent)
	if !ok {
		t.Fatal("Expected ErrorEvent")
	}
	if event.Service != "dataset" {
		t.Errorf("ErrorEvent.Service = %q, want dataset", event.Service)
	}
	if mgr.Dataset() != before {
		t.Error("Failed reload should keep the previous snapshot")
	}
	if notifier.count() != 0 {
		t.Error("Failed reload should not notify")
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Unsubscribe should close the channel")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr := newTestManager(t, newTestConfig(t))

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ErrorEvent{Service: "test"}
	mgr.broadcast(event)

	if e := waitForServiceEvent(t, ch); e != event {
		t.Errorf("Got event %v, want %v", e, event)
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- ErrorEvent{Service: "x"}

	if msg := WaitForEvent(ch)(); msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}

	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("WaitForEvent on closed channel = %v, want nil", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = DatasetReloadedEvent{}
	var _ ServiceEvent = ErrorEvent{}

	DatasetReloadedEvent{}.isServiceEvent()
	ErrorEvent{}.isServiceEvent()
}

func TestManager_Close(t *testing.T) {
	empty := &Manager{}
	if err := empty.Close(); err != nil {
		t.Errorf("Close on empty manager = %v", err)
	}

	mgr, err := NewManager(newTestConfig(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
