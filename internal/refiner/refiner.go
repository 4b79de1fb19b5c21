package refiner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/text"
)

// Insight tags attached to excerpts, in emission order.
const (
	TagQuantitative = "quantitative"
	TagComparison   = "comparison"
	TagObjective    = "objective"
)

// DefaultMaxSentences bounds an excerpt when the caller does not.
const DefaultMaxSentences = 5

// Sentences at or below this many characters are not scored.
const minSentenceChars = 20

// A sentence overlapping an objective at this ratio or better earns the
// objective tag.
const objectiveTagThreshold = 0.5

// Excerpt is the refined reading of one ranked section: a subsequence of
// its sentences plus insight tags.
type Excerpt struct {
	DocumentID string   `json:"document_id"`
	PageNumber int      `json:"page_number"`
	Heading    string   `json:"heading,omitempty"`
	Sentences  []string `json:"sentences"`
	Tags       []string `json:"tags,omitempty"`
}

// Text joins the selected sentences back into prose. Sentences keep their
// own terminators; a missing final terminator gets a period.
func (e Excerpt) Text() string {
	joined := strings.Join(e.Sentences, " ")
	if joined == "" {
		return joined
	}
	switch joined[len(joined)-1] {
	case '.', '!', '?':
		return joined
	}
	return joined + "."
}

// Refiner selects the most relevant sentences of top-ranked sections. It
// shares the keyword and objective overlap logic with the scorer so an
// excerpt highlights the same signals the ranking rewarded.
type Refiner struct {
	tok          text.Tokenizer
	split        text.SentenceSplitter
	maxSentences int
}

func New(lex *persona.Lexicon, maxSentences int) *Refiner {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &Refiner{
		tok:          text.NewTokenizer(lex.StopSet()),
		split:        text.NewSplitter(),
		maxSentences: maxSentences,
	}
}

// Refine produces one excerpt per ranked section; callers pass the top-K
// slice of a ranking. Sections whose bodies contain no sentences are
// skipped. Input is never modified.
func (r *Refiner) Refine(ranked []scorer.RankedSection, profile *persona.Profile) []Excerpt {
	objSets := scorer.ObjectiveSets(profile.Objectives, r.tok)
	out := make([]Excerpt, 0, len(ranked))
	for _, rs := range ranked {
		if ex, ok := r.refineOne(rs.Section, profile, objSets); ok {
			out = append(out, ex)
		}
	}
	return out
}

func (r *Refiner) refineOne(sec section.Section, profile *persona.Profile, objSets []map[string]struct{}) (Excerpt, bool) {
	sentences := r.split.Split(sec.Body)
	if len(sentences) == 0 {
		return Excerpt{}, false
	}

	type scoredSentence struct {
		idx   int
		score float64
	}
	var candidates []scoredSentence
	for i, sent := range sentences {
		if len(strings.TrimSpace(sent)) <= minSentenceChars {
			continue
		}
		toks := text.Set(r.tok.Tokens(sent))
		score := scorer.KeywordOverlap(profile.Keywords, toks) + scorer.BestOverlap(objSets, toks)
		candidates = append(candidates, scoredSentence{idx: i, score: score})
	}

	var picked []int
	if len(candidates) == 0 {
		// Every sentence fell under the length filter; keep the leading ones
		// so a top-ranked section still yields an excerpt.
		for i := 0; i < len(sentences) && i < r.maxSentences; i++ {
			picked = append(picked, i)
		}
	} else {
		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].score != candidates[b].score {
				return candidates[a].score > candidates[b].score
			}
			return candidates[a].idx < candidates[b].idx
		})
		n := r.maxSentences
		if n > len(candidates) {
			n = len(candidates)
		}
		picked = make([]int, 0, n)
		for _, c := range candidates[:n] {
			picked = append(picked, c.idx)
		}
		// Selection reads as a subsequence of the source text.
		sort.Ints(picked)
	}

	selected := make([]string, 0, len(picked))
	for _, i := range picked {
		selected = append(selected, sentences[i])
	}

	return Excerpt{
		DocumentID: sec.DocumentID,
		PageNumber: sec.PageNumber,
		Heading:    sec.Heading,
		Sentences:  selected,
		Tags:       r.insightTags(selected, objSets),
	}, true
}

// Number followed by a unit, percentage, or multiplier.
var quantPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:%|percent|percentage points?|x\b|times|fold|ms|seconds?|minutes?|hours?|days?|weeks?|months?|years?|mg|kg|km|cm|mm|gb|mb|kb|ghz|mhz|hz|usd|dollars?|euros?)`)

var comparisonMarkers = []string{
	"compared to", "compared with", "versus", " vs ", "vs.", "relative to",
	"in contrast", "higher than", "lower than", "greater than", "less than",
	"outperform", "more than", "fewer than",
}

// insightTags flags quantitative, comparison, and objective signals across
// the selected sentences. Tag order is fixed and duplicates are impossible.
func (r *Refiner) insightTags(sentences []string, objSets []map[string]struct{}) []string {
	var quantitative, comparison, objective bool
	for _, sent := range sentences {
		if !quantitative && quantPattern.MatchString(sent) {
			quantitative = true
		}
		if !comparison {
			low := strings.ToLower(sent)
			for _, marker := range comparisonMarkers {
				if strings.Contains(low, marker) {
					comparison = true
					break
				}
			}
		}
		if !objective && len(objSets) > 0 {
			toks := text.Set(r.tok.Tokens(sent))
			if scorer.BestOverlap(objSets, toks) >= objectiveTagThreshold {
				objective = true
			}
		}
	}

	var tags []string
	if quantitative {
		tags = append(tags, TagQuantitative)
	}
	if comparison {
		tags = append(tags, TagComparison)
	}
	if objective {
		tags = append(tags, TagObjective)
	}
	return tags
}
