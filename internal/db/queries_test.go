package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

func sampleSpec() models.FilterSpec {
	return models.FilterSpec{
		Start:   time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2011, 3, 31, 0, 0, 0, 0, time.UTC),
		Weather: []string{"Clear / Few Clouds"},
		Seasons: []string{"Spring", "Winter"},
		Tiers:   []models.DemandTier{models.TierMedium, models.TierHigh},
	}
}

func TestSavePreset_AndGet(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	at := time.Date(2024, 2, 3, 10, 30, 0, 0, time.UTC)
	if err := db.SavePreset("winter", sampleSpec(), at); err != nil {
		t.Fatalf("SavePreset() failed: %v", err)
	}

	p, err := db.GetPreset("winter")
	if err != nil {
		t.Fatalf("GetPreset() failed: %v", err)
	}

	want := sampleSpec()
	if p.Name != "winter" {
		t.Errorf("Name = %q, want winter", p.Name)
	}
	if !p.Spec.Start.Equal(want.Start) || !p.Spec.End.Equal(want.End) {
		t.Errorf("date range = %v..%v, want %v..%v", p.Spec.Start, p.Spec.End, want.Start, want.End)
	}
	if len(p.Spec.Seasons) != 2 || p.Spec.Seasons[1] != "Winter" {
		t.Errorf("Seasons = %v, want %v", p.Spec.Seasons, want.Seasons)
	}
	if len(p.Spec.Tiers) != 2 || p.Spec.Tiers[0] != models.TierMedium {
		t.Errorf("Tiers = %v, want %v", p.Spec.Tiers, want.Tiers)
	}
	if !p.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", p.UpdatedAt, at)
	}
}

func TestSavePreset_Overwrites(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	first := sampleSpec()
	if err := db.SavePreset("p", first, time.Now()); err != nil {
		t.Fatalf("SavePreset() failed: %v", err)
	}

	second := sampleSpec()
	second.Weather = []string{"Mist / Cloudy", "Light Snow / Rain"}
	if err := db.SavePreset("p", second, time.Now()); err != nil {
		t.Fatalf("SavePreset() failed: %v", err)
	}

	presets, err := db.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets() failed: %v", err)
	}
	if len(presets) != 1 {
		t.Fatalf("Expected 1 preset, got %d", len(presets))
	}
	if len(presets[0].Spec.Weather) != 2 {
		t.Errorf("Expected overwritten weather selection, got %v", presets[0].Spec.Weather)
	}
}

func TestSavePreset_RequiresName(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.SavePreset("", sampleSpec(), time.Now()); err == nil {
		t.Error("Expected error for empty preset name")
	}
}

func TestSavePreset_EmptySelectionsSurvive(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	spec := sampleSpec()
	spec.Weather = nil
	spec.Tiers = nil
	if err := db.SavePreset("empty", spec, time.Now()); err != nil {
		t.Fatalf("SavePreset() failed: %v", err)
	}

	p, err := db.GetPreset("empty")
	if err != nil {
		t.Fatalf("GetPreset() failed: %v", err)
	}
	if len(p.Spec.Weather) != 0 || len(p.Spec.Tiers) != 0 {
		t.Errorf("Expected empty selections, got weather=%v tiers=%v", p.Spec.Weather, p.Spec.Tiers)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.GetPreset("missing")
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected ErrPresetNotFound, got %v", err)
	}
}

func TestListPresets_Order(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "mid", "new"} {
		if err := db.SavePreset(name, sampleSpec(), base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("SavePreset(%s) failed: %v", name, err)
		}
	}

	presets, err := db.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets() failed: %v", err)
	}

	want := []string{"new", "mid", "old"}
	if len(presets) != len(want) {
		t.Fatalf("Expected %d presets, got %d", len(want), len(presets))
	}
	for i, name := range want {
		if presets[i].Name != name {
			t.Errorf("presets[%d] = %q, want %q", i, presets[i].Name, name)
		}
	}
}

func TestDeletePreset(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.SavePreset("gone", sampleSpec(), time.Now()); err != nil {
		t.Fatalf("SavePreset() failed: %v", err)
	}
	if err := db.DeletePreset("gone"); err != nil {
		t.Fatalf("DeletePreset() failed: %v", err)
	}
	if _, err := db.GetPreset("gone"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected preset to be deleted, got %v", err)
	}
	if err := db.DeletePreset("never-existed"); err != nil {
		t.Errorf("DeletePreset() of unknown name should succeed, got %v", err)
	}
}

func TestInsertLoad(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	entry := &models.LoadEntry{
		Path:       "/data/bikes.csv",
		Rows:       17379,
		DurationMs: 240,
		LoadedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := db.InsertLoad(entry); err != nil {
		t.Fatalf("InsertLoad() failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("InsertLoad() should set ID")
	}

	loads, err := db.RecentLoads(5)
	if err != nil {
		t.Fatalf("RecentLoads() failed: %v", err)
	}
	if len(loads) != 1 {
		t.Fatalf("Expected 1 load, got %d", len(loads))
	}

	got := loads[0]
	if got.Path != entry.Path || got.Rows != entry.Rows || got.DurationMs != entry.DurationMs {
		t.Errorf("RecentLoads()[0] = %+v, want %+v", got, *entry)
	}
	if !got.LoadedAt.Equal(entry.LoadedAt) {
		t.Errorf("LoadedAt = %v, want %v", got.LoadedAt, entry.LoadedAt)
	}
}

func TestRecentLoads_LimitAndOrder(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := &models.LoadEntry{
			Path:     fmt.Sprintf("file-%d.csv", i),
			Rows:     i,
			LoadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertLoad(entry); err != nil {
			t.Fatalf("InsertLoad() failed: %v", err)
		}
	}

	loads, err := db.RecentLoads(3)
	if err != nil {
		t.Fatalf("RecentLoads() failed: %v", err)
	}
	if len(loads) != 3 {
		t.Fatalf("Expected 3 loads, got %d", len(loads))
	}
	if loads[0].Path != "file-4.csv" || loads[2].Path != "file-2.csv" {
		t.Errorf("Unexpected order: %s .. %s", loads[0].Path, loads[2].Path)
	}
}

func TestRecentLoads_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	loads, err := db.RecentLoads(10)
	if err != nil {
		t.Fatalf("RecentLoads() failed: %v", err)
	}
	if len(loads) != 0 {
		t.Errorf("Expected no loads, got %d", len(loads))
	}
}

func TestPruneLoads(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := &models.LoadEntry{
			Path:     fmt.Sprintf("file-%d.csv", i),
			LoadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertLoad(entry); err != nil {
			t.Fatalf("InsertLoad() failed: %v", err)
		}
	}

	deleted, err := db.PruneLoads(2)
	if err != nil {
		t.Fatalf("PruneLoads() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	loads, err := db.RecentLoads(10)
	if err != nil {
		t.Fatalf("RecentLoads() failed: %v", err)
	}
	if len(loads) != 2 || loads[1].Path != "file-3.csv" {
		t.Errorf("kept %+v, want the two newest", loads)
	}

	if deleted, _ := db.PruneLoads(2); deleted != 0 {
		t.Errorf("second prune deleted %d rows, want 0", deleted)
	}
}
