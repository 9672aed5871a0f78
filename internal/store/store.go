// Package store handles SQLite persistence of practice settings.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typefast/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// settingsKey is the single row holding the last used config.
const settingsKey = "last"

// Store wraps SQLite access for settings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			time_limit INTEGER NOT NULL,
			words INTEGER NOT NULL,
			variant TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSettings stores cfg as the last used config, replacing any previous value.
func (s *Store) SaveSettings(ctx context.Context, cfg model.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, mode, time_limit, words, variant, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			mode = excluded.mode,
			time_limit = excluded.time_limit,
			words = excluded.words,
			variant = excluded.variant,
			updated_at = excluded.updated_at`,
		settingsKey,
		cfg.Mode.String(),
		cfg.TimeLimit,
		cfg.Words,
		cfg.Variant.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadSettings returns the last saved config. The boolean is false when nothing was saved.
// A row that no longer parses is treated as absent.
func (s *Store) LoadSettings(ctx context.Context) (model.Config, bool, error) {
	var (
		modeName, variantName string
		cfg                   model.Config
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT mode, time_limit, words, variant FROM settings WHERE key = ?`, settingsKey,
	).Scan(&modeName, &cfg.TimeLimit, &cfg.Words, &variantName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Config{}, false, nil
	}
	if err != nil {
		return model.Config{}, false, fmt.Errorf("load settings: %w", err)
	}
	mode, err := model.ParseMode(modeName)
	if err != nil {
		return model.Config{}, false, nil
	}
	variant, err := model.ParseVariant(variantName)
	if err != nil {
		return model.Config{}, false, nil
	}
	cfg.Mode = mode
	cfg.Variant = variant
	if cfg.Validate() != nil {
		return model.Config{}, false, nil
	}
	return cfg, true, nil
}

// ClearSettings removes the saved config.
func (s *Store) ClearSettings(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, settingsKey); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}
