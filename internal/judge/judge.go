// Package judge classifies typed characters against the target text.
package judge

import "github.com/verte-zerg/typefast/internal/model"

// Engine keeps per-position judgments and cumulative counts.
//
// Counts survive Replace so a timed session keeps its totals across regenerated texts.
type Engine struct {
	judgments []model.Judgment
	counts    model.Counts
}

// New returns an Engine for a text of the given length.
func New(length int) *Engine {
	e := &Engine{}
	e.Replace(length)
	return e
}

// Replace starts a fresh pending judgment sequence and keeps the counts.
func (e *Engine) Replace(length int) {
	if length < 0 {
		length = 0
	}
	e.judgments = make([]model.Judgment, length)
}

// Judge records the verdict for typed at pos. Out-of-range positions are ignored.
func (e *Engine) Judge(pos int, expected, typed rune) model.Judgment {
	if pos < 0 || pos >= len(e.judgments) {
		return model.JudgmentPending
	}
	verdict := model.JudgmentIncorrect
	if typed == expected {
		verdict = model.JudgmentCorrect
	}
	e.judgments[pos] = verdict
	if verdict == model.JudgmentCorrect {
		e.counts.Correct++
	} else {
		e.counts.Incorrect++
	}
	e.counts.Total++
	return verdict
}

// Undo reverts the judgment at pos back to pending.
func (e *Engine) Undo(pos int) {
	if pos < 0 || pos >= len(e.judgments) {
		return
	}
	switch e.judgments[pos] {
	case model.JudgmentCorrect:
		e.counts.Correct = decrement(e.counts.Correct)
	case model.JudgmentIncorrect:
		e.counts.Incorrect = decrement(e.counts.Incorrect)
	default:
		return
	}
	e.counts.Total = decrement(e.counts.Total)
	e.judgments[pos] = model.JudgmentPending
}

// Verdict returns the judgment at pos, pending when out of range.
func (e *Engine) Verdict(pos int) model.Judgment {
	if pos < 0 || pos >= len(e.judgments) {
		return model.JudgmentPending
	}
	return e.judgments[pos]
}

// Judgments returns a copy of the per-position judgments.
func (e *Engine) Judgments() []model.Judgment {
	out := make([]model.Judgment, len(e.judgments))
	copy(out, e.judgments)
	return out
}

// Counts returns the cumulative counts.
func (e *Engine) Counts() model.Counts {
	return e.counts
}

// Len returns the length of the current judgment sequence.
func (e *Engine) Len() int {
	return len(e.judgments)
}

// Tally folds judgments into counts.
func Tally(judgments []model.Judgment) model.Counts {
	var c model.Counts
	for _, j := range judgments {
		switch j {
		case model.JudgmentCorrect:
			c.Correct++
			c.Total++
		case model.JudgmentIncorrect:
			c.Incorrect++
			c.Total++
		}
	}
	return c
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
