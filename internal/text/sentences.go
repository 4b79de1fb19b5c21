package text

import (
	"strings"
	"unicode"
)

// SentenceSplitter segments prose into sentences. Splitting is inherently
// heuristic, so it stays behind this interface where the rule can be swapped
// without touching refinement logic.
type SentenceSplitter interface {
	Split(s string) []string
}

// Abbreviations that commonly precede a period mid-sentence.
var abbreviations = map[string]struct{}{
	"e.g":  {},
	"i.e":  {},
	"dr":   {},
	"mr":   {},
	"mrs":  {},
	"ms":   {},
	"prof": {},
	"st":   {},
	"fig":  {},
	"vs":   {},
	"al":   {},
	"etc":  {},
}

// ProseSplitter splits on terminal punctuation followed by whitespace and an
// uppercase letter, with an exception list for common abbreviations.
type ProseSplitter struct{}

func NewSplitter() *ProseSplitter { return &ProseSplitter{} }

func (ProseSplitter) Split(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Look past the punctuation for whitespace then an uppercase letter.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue
		}
		if !unicode.IsUpper(runes[j]) {
			continue
		}
		if r == '.' && endsInAbbreviation(current.String()) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		// Resume at the uppercase rune; the separator whitespace is dropped.
		i = j - 1
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// endsInAbbreviation reports whether the text ends in a known abbreviation
// plus period, as in "measured by Dr." or "several methods, e.g.".
func endsInAbbreviation(s string) bool {
	s = strings.TrimSuffix(s, ".")
	end := len(s)
	start := end
	for start > 0 {
		c := s[start-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '.' {
			start--
			continue
		}
		break
	}
	word := strings.ToLower(strings.TrimSuffix(s[start:end], "."))
	_, ok := abbreviations[word]
	return ok
}
