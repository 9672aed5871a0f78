package session

import "unicode"

// KeyKind distinguishes character input from backspace.
type KeyKind uint8

// Key kinds.
const (
	KeyChar KeyKind = iota
	KeyBackspace
)

// KeyEvent is one input event from the presentation surface.
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// Char returns a character event.
func Char(r rune) KeyEvent {
	return KeyEvent{Kind: KeyChar, Rune: r}
}

// Backspace returns a backspace event.
func Backspace() KeyEvent {
	return KeyEvent{Kind: KeyBackspace}
}

// FromRunes converts raw key runes into an event. Anything other than a single printable
// rune (paste bursts, control characters) is rejected.
func FromRunes(runes []rune) (KeyEvent, bool) {
	if len(runes) != 1 || !Printable(runes[0]) {
		return KeyEvent{}, false
	}
	return Char(runes[0]), true
}

// Printable reports whether r can be judged.
func Printable(r rune) bool {
	return r == ' ' || unicode.IsPrint(r)
}
