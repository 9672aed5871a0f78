package model

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	for i, name := range ModeNames() {
		got, err := ParseMode(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if int(got) != i {
			t.Fatalf("expected mode %d for %q, got %d", i, name, got)
		}
		if got.String() != name {
			t.Fatalf("expected %q, got %q", name, got.String())
		}
	}
}

func TestParseModeSuggestsClosestName(t *testing.T) {
	_, err := ParseMode("qte")
	if err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if !strings.Contains(err.Error(), `did you mean "quote"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestParseVariantAlias(t *testing.T) {
	got, err := ParseVariant("english")
	if err != nil {
		t.Fatalf("parse english: %v", err)
	}
	if got != VariantPlain {
		t.Fatalf("expected plain, got %v", got)
	}
	if _, err := ParseVariant(""); err == nil {
		t.Fatalf("expected error for empty variant")
	}
}

func TestNextWraps(t *testing.T) {
	if ModeQuote.Next() != ModeWords {
		t.Fatalf("expected quote to wrap to words")
	}
	if VariantMixed.Next() != VariantPlain {
		t.Fatalf("expected mixed to wrap to plain")
	}
}

func TestConfigValidate(t *testing.T) {
	ok := Config{Mode: ModeTime, TimeLimit: 30, Words: 25, Variant: VariantMixed}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []Config{
		{Mode: ModeWords, TimeLimit: 30, Words: 0},
		{Mode: ModeWords, TimeLimit: 0, Words: 10},
		{Mode: Mode(9), TimeLimit: 30, Words: 10},
		{Mode: ModeWords, TimeLimit: 30, Words: 10, Variant: Variant(-1)},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
