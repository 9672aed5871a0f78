package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typefast/internal/model"
)

// wrongSpace marks a space that was typed over with another character.
const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles the target text from its judgments. Text before the cursor shows
// its verdict, the word under the cursor is highlighted and the cursor itself underlined.
func buildStyledRunes(state model.RenderState) []styledRune {
	cursor := state.Cursor
	if cursor >= len(state.Text) {
		cursor = -1
	}
	current, hasCurrent := wordAt(state.Text, cursor)

	out := make([]styledRune, 0, len(state.Text))
	for i, target := range state.Text {
		shown := target
		style := pendingStyle
		verdict := model.JudgmentPending
		if i < len(state.Judgments) {
			verdict = state.Judgments[i]
		}
		switch {
		case verdict == model.JudgmentCorrect:
			style = correctStyle
		case verdict == model.JudgmentIncorrect:
			style = incorrectStyle
			if target == ' ' {
				shown = wrongSpace
			}
		case hasCurrent && target != ' ' && i >= current.start && i < current.end:
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

// wordAt returns the word containing pos, or the next word when pos sits on a space.
func wordAt(text []rune, pos int) (wordRange, bool) {
	if pos < 0 || pos >= len(text) {
		return wordRange{}, false
	}
	start := pos
	for start < len(text) && text[start] == ' ' {
		start++
	}
	if start == len(text) {
		return wordRange{}, false
	}
	for start > 0 && text[start-1] != ' ' {
		start--
	}
	end := start
	for end < len(text) && text[end] != ' ' {
		end++
	}
	return wordRange{start: start, end: end}, true
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapLines breaks runes into lines no wider than width, preferring the last space on a line.
// The breaking space is dropped from the output.
func wrapLines(runes []styledRune, width int) []string {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}
	}
	var lines []string
	start, lineWidth, lastSpace := 0, 0, -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && i > start {
			end, next := i, i
			if lastSpace >= start {
				end, next = lastSpace, lastSpace+1
			}
			lines = append(lines, renderStyledRunes(runes[start:end]))
			start, lastSpace = next, -1
			lineWidth = 0
			for _, r := range runes[start:i] {
				lineWidth += r.width
			}
			continue
		}
		lineWidth += item.width
		if item.isSpace {
			lastSpace = i
		}
		i++
	}
	return append(lines, renderStyledRunes(runes[start:]))
}

func wrapStyledRunes(runes []styledRune, width int) string {
	return strings.Join(wrapLines(runes, width), "\n")
}
