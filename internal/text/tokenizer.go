package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tokenizer produces normalized index tokens from raw text. Corpus and query
// sides must share a single tokenizer so vocabulary membership stays
// consistent between sections and persona keywords.
type Tokenizer interface {
	Tokens(s string) []string
}

// Letter runs only; digits and punctuation act as separators.
var wordPattern = regexp.MustCompile(`\p{L}+`)

// RegexTokenizer lowercases input, extracts letter runs, and drops stop
// words and tokens shorter than three runes.
type RegexTokenizer struct {
	stop map[string]struct{}
}

func NewTokenizer(stopWords map[string]struct{}) *RegexTokenizer {
	return &RegexTokenizer{stop: stopWords}
}

func (t *RegexTokenizer) Tokens(s string) []string {
	words := wordPattern.FindAllString(strings.ToLower(s), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		if _, skip := t.stop[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Words extracts lowercase letter runs with no stop-word or length
// filtering. Lexicon marker matching uses this so stop-word configuration
// cannot hide a marker.
func Words(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// Set collapses a token list into a membership set.
func Set(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		m[tok] = struct{}{}
	}
	return m
}
