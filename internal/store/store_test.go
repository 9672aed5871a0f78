package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typefast/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "typefast.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return s
}

func TestLoadSettingsEmpty(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected no settings")
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	first := model.Config{Mode: model.ModeTime, TimeLimit: 60, Words: 25, Variant: model.VariantMixed}
	if err := s.SaveSettings(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := model.Config{Mode: model.ModeQuote, TimeLimit: 15, Words: 10, Variant: model.VariantNumbers}
	if err := s.SaveSettings(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected settings")
	}
	if got != second {
		t.Fatalf("expected %+v, got %+v", second, got)
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single row, got %d", rows)
	}
}

func TestSaveSettingsRejectsInvalid(t *testing.T) {
	s := openTemp(t)
	if err := s.SaveSettings(context.Background(), model.Config{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClearSettings(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	cfg := model.Config{Mode: model.ModeWords, TimeLimit: 30, Words: 50, Variant: model.VariantPlain}
	if err := s.SaveSettings(ctx, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.ClearSettings(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, err := s.LoadSettings(ctx); err != nil || ok {
		t.Fatalf("expected cleared settings, ok=%v err=%v", ok, err)
	}
}

func TestLoadSettingsIgnoresCorruptRow(t *testing.T) {
	s := openTemp(t)
	_, err := s.db.Exec(`INSERT INTO settings (key, mode, time_limit, words, variant, updated_at)
		VALUES ('last', 'marathon', 30, 25, 'plain', '')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, ok, err := s.LoadSettings(context.Background()); err != nil || ok {
		t.Fatalf("expected corrupt row to be ignored, ok=%v err=%v", ok, err)
	}
}

func TestSettingsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typefast.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	cfg := model.Config{Mode: model.ModeWords, TimeLimit: 120, Words: 100, Variant: model.VariantPunctuation}
	if err := s.SaveSettings(context.Background(), cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, ok, err := s.LoadSettings(context.Background())
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if got != cfg {
		t.Fatalf("expected %+v, got %+v", cfg, got)
	}
}
