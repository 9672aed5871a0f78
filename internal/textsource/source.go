// Package textsource builds the text a session asks the user to type.
package textsource

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/typefast/internal/model"
)

// Fallback is used whenever generation yields no text.
const Fallback = "The quick brown fox jumps over the lazy dog. This pangram sentence contains every letter of the English alphabet at least once. It is commonly used for testing typewriters and computer keyboards, and in other applications involving text where the use of all letters in the alphabet is desired."

const (
	wordPunctPct  = 0.3
	numberTokens  = 20
	numberTokenUp = 1000

	mixedNumberPct = 0.1
	mixedNumberUp  = 100
	mixedPunctPct  = 0.2
)

var (
	wordPunctSet  = []rune{'.', ',', '!', '?', ';', ':'}
	mixedPunctSet = []rune{'.', ',', '!', '?'}
)

// Source produces randomized typing text from a word list and a paragraph corpus.
type Source struct {
	rnd        *rand.Rand
	words      []string
	paragraphs []string
}

// New returns a Source over the embedded corpus seeded with the current time.
func New() *Source {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Source over the embedded corpus with a fixed seed.
func NewWithSeed(seed int64) *Source {
	return &Source{
		rnd:        rand.New(rand.NewSource(seed)),
		words:      builtinWords,
		paragraphs: builtinParagraphs,
	}
}

// WithWords replaces the word list used for word-count texts.
func (s *Source) WithWords(words []string) *Source {
	s.words = append([]string(nil), words...)
	return s
}

// WithParagraphs replaces the paragraph corpus used for time and quote texts.
func (s *Source) WithParagraphs(paragraphs []string) *Source {
	s.paragraphs = append([]string(nil), paragraphs...)
	return s
}

// Generate returns text for the mode and variant, or "" when nothing can be produced.
func (s *Source) Generate(mode model.Mode, variant model.Variant, wordCount int) string {
	var text string
	switch mode {
	case model.ModeWords:
		text = s.wordText(variant, wordCount)
	default:
		text = s.paragraph()
	}
	if text == "" {
		return ""
	}
	if variant == model.VariantMixed {
		text = s.mixWords(text)
	}
	return text
}

func (s *Source) wordText(variant model.Variant, count int) string {
	words := s.wordsForVariant(variant)
	if count <= 0 || len(words) == 0 {
		return ""
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[s.rnd.Intn(len(words))])
	}
	return strings.Join(result, " ")
}

// wordsForVariant punctuates the list for punctuation and mixed; only numbers gains numeral tokens.
func (s *Source) wordsForVariant(variant model.Variant) []string {
	switch variant {
	case model.VariantPunctuation, model.VariantMixed:
		out := make([]string, len(s.words))
		for i, word := range s.words {
			out[i] = applyPunct(s.rnd, word, wordPunctPct, wordPunctSet)
		}
		return out
	case model.VariantNumbers:
		out := make([]string, 0, len(s.words)+numberTokens)
		out = append(out, s.words...)
		for i := 0; i < numberTokens; i++ {
			out = append(out, strconv.Itoa(s.rnd.Intn(numberTokenUp)))
		}
		return out
	default:
		return s.words
	}
}

func (s *Source) paragraph() string {
	if len(s.paragraphs) == 0 {
		return ""
	}
	return s.paragraphs[s.rnd.Intn(len(s.paragraphs))]
}

// mixWords replaces a word with a numeral first; only words left intact can gain punctuation.
func (s *Source) mixWords(text string) string {
	words := strings.Split(text, " ")
	for i, word := range words {
		if s.rnd.Float64() < mixedNumberPct {
			words[i] = strconv.Itoa(s.rnd.Intn(mixedNumberUp))
			continue
		}
		words[i] = applyPunct(s.rnd, word, mixedPunctPct, mixedPunctSet)
	}
	return strings.Join(words, " ")
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() >= punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
