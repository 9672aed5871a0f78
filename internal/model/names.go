package model

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var modeNames = []string{"words", "time", "quote"}

var variantNames = []string{"plain", "numbers", "punctuation", "mixed"}

// ModeNames lists the accepted mode names in declaration order.
func ModeNames() []string {
	return append([]string(nil), modeNames...)
}

// VariantNames lists the accepted variant names in declaration order.
func VariantNames() []string {
	return append([]string(nil), variantNames...)
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

func (l Lifecycle) String() string {
	switch l {
	case LifecycleIdle:
		return "idle"
	case LifecycleActive:
		return "active"
	case LifecycleComplete:
		return "complete"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

func (t TimerState) String() string {
	if t == TimerPaused {
		return "paused"
	}
	return "running"
}

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	idx, err := lookupName(name, modeNames, nil, "mode")
	return Mode(idx), err
}

// ParseVariant resolves a variant name. "english" is accepted for plain.
func ParseVariant(name string) (Variant, error) {
	idx, err := lookupName(name, variantNames, map[string]int{"english": 0}, "variant")
	return Variant(idx), err
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// Next returns the variant after v, wrapping around.
func (v Variant) Next() Variant {
	return Variant((int(v) + 1) % len(variantNames))
}

func lookupName(name string, names []string, aliases map[string]int, kind string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range names {
		if candidate == normalized {
			return i, nil
		}
	}
	if idx, ok := aliases[normalized]; ok {
		return idx, nil
	}
	if normalized == "" {
		return 0, fmt.Errorf("%s must not be empty (available: %s)", kind, strings.Join(names, ", "))
	}
	if matches := fuzzy.Find(normalized, names); len(matches) > 0 {
		return 0, fmt.Errorf("unknown %s %q (did you mean %q?)", kind, name, matches[0].Str)
	}
	return 0, fmt.Errorf("unknown %s %q (available: %s)", kind, name, strings.Join(names, ", "))
}
