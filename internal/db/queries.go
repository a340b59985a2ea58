package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// ErrPresetNotFound is returned by GetPreset for an unknown name.
var ErrPresetNotFound = errors.New("preset not found")

// SavePreset inserts or replaces the preset with the given name.
func (db *DB) SavePreset(name string, spec models.FilterSpec, at time.Time) error {
	if name == "" {
		return errors.New("preset name is required")
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}

	query := `
		INSERT INTO filter_presets (name, spec_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			spec_json = excluded.spec_json,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(context.Background(), query, name, string(data), at.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

// GetPreset returns the preset with the given name.
func (db *DB) GetPreset(name string) (*models.Preset, error) {
	row := db.QueryRowContext(context.Background(),
		`SELECT name, spec_json, updated_at FROM filter_presets WHERE name = ?`, name)

	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return p, nil
}

// ListPresets returns every preset, most recently updated first.
func (db *DB) ListPresets() ([]models.Preset, error) {
	rows, err := db.QueryContext(context.Background(),
		`SELECT name, spec_json, updated_at FROM filter_presets ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var presets []models.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, *p)
	}

	return presets, rows.Err()
}

// DeletePreset removes a preset. Deleting an unknown name is not an error.
func (db *DB) DeletePreset(name string) error {
	if _, err := db.ExecContext(context.Background(), `DELETE FROM filter_presets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(s scanner) (*models.Preset, error) {
	var p models.Preset
	var specJSON, updated string

	if err := s.Scan(&p.Name, &specJSON, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specJSON), &p.Spec); err != nil {
		return nil, fmt.Errorf("invalid preset %q: %w", p.Name, err)
	}
	p.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &p, nil
}

// InsertLoad records a dataset load.
func (db *DB) InsertLoad(entry *models.LoadEntry) error {
	loadedAt := entry.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(),
		`INSERT INTO load_history (path, rows, duration_ms, loaded_at) VALUES (?, ?, ?, ?)`,
		entry.Path,
		entry.Rows,
		entry.DurationMs,
		loadedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert load: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	return nil
}

// RecentLoads returns the most recent loads, newest first.
func (db *DB) RecentLoads(limit int) ([]models.LoadEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := db.QueryContext(context.Background(), `
		SELECT id, path, rows, duration_ms, loaded_at
		FROM load_history
		ORDER BY loaded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.LoadEntry
	for rows.Next() {
		var e models.LoadEntry
		var loaded string

		if err := rows.Scan(&e.ID, &e.Path, &e.Rows, &e.DurationMs, &loaded); err != nil {
			return nil, fmt.Errorf("failed to scan load entry: %w", err)
		}

		e.LoadedAt, _ = time.Parse(timeLayout, loaded)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// PruneLoads deletes all but the newest keep load entries and returns how
// many rows were removed.
func (db *DB) PruneLoads(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := db.ExecContext(context.Background(), `
		DELETE FROM load_history
		WHERE id NOT IN (
			SELECT id FROM load_history
			ORDER BY loaded_at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune load history: %w", err)
	}

	return res.RowsAffected()
}
