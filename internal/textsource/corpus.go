package textsource

import (
	_ "embed"
	"strings"
)

//go:embed data/words.txt
var wordsData string

//go:embed data/paragraphs.txt
var paragraphsData string

var (
	builtinWords      = splitLines(wordsData)
	builtinParagraphs = splitLines(paragraphsData)
)

// Words returns a copy of the built-in word list.
func Words() []string {
	return append([]string(nil), builtinWords...)
}

// Paragraphs returns a copy of the built-in paragraph corpus.
func Paragraphs() []string {
	return append([]string(nil), builtinParagraphs...)
}

func splitLines(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
