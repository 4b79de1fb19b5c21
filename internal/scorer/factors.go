package scorer

import (
	"math"
	"sort"

	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/text"
	"github.com/dgallion1/docrank/internal/vector"
)

// FactorScores maps factor name to its clamped [0,1] value. It is kept on
// every ranked section so callers can explain a composite score.
type FactorScores map[string]float64

// Fixed structural importance by section type.
var structuralWeights = map[section.Type]float64{
	section.TypeAbstract:     1.0,
	section.TypeSummary:      1.0,
	section.TypeConclusion:   0.8,
	section.TypeResults:      0.7,
	section.TypeMethodology:  0.6,
	section.TypeIntroduction: 0.4,
	section.TypeGeneric:      0.2,
}

// Jargon-density thresholds for inferring a section's technical level.
const (
	densityIntermediate = 0.02
	densityAdvanced     = 0.06
	densityExpert       = 0.12
)

// corpusEnv is the per-run context shared by all factor computations:
// the fitted vectors plus per-section token sets, keyword overlaps, and
// inferred levels, precomputed once.
type corpusEnv struct {
	sections   []section.Section
	vecs       []vector.Vector
	query      vector.Vector
	profile    *persona.Profile
	tokens     []map[string]struct{}
	levels     []persona.Level
	overlaps   []float64
	maxOverlap float64
	objSets    []map[string]struct{}
}

func similarity(s *Scorer, env *corpusEnv, i int) float64 {
	if i >= len(env.vecs) {
		return 0
	}
	return vector.Cosine(env.vecs[i], env.query)
}

// keywordMatch min-max scales the weighted keyword overlap against the best
// overlap in the corpus. A corpus with no overlap anywhere scores 0 for
// every section.
func keywordMatch(s *Scorer, env *corpusEnv, i int) float64 {
	if env.maxOverlap == 0 {
		return 0
	}
	return env.overlaps[i] / env.maxOverlap
}

// domainRelevance is the fraction of persona domain tags whose lexicon has
// at least one term in the section. A profile without tags scores the
// neutral 0.5.
func domainRelevance(s *Scorer, env *corpusEnv, i int) float64 {
	tags := env.profile.DomainTags
	if len(tags) == 0 {
		return 0.5
	}
	toks := env.tokens[i]
	hit := 0
	for _, tag := range tags {
		for term := range s.lex.DomainTerms(tag) {
			if _, ok := toks[term]; ok {
				hit++
				break
			}
		}
	}
	return float64(hit) / float64(len(tags))
}

func structuralImportance(s *Scorer, env *corpusEnv, i int) float64 {
	if w, ok := structuralWeights[env.sections[i].Type]; ok {
		return w
	}
	return structuralWeights[section.TypeGeneric]
}

func technicalAlignment(s *Scorer, env *corpusEnv, i int) float64 {
	diff := math.Abs(float64(env.profile.TechnicalLevel - env.levels[i]))
	return 1 - diff/persona.LevelSpan
}

func objectiveAlignment(s *Scorer, env *corpusEnv, i int) float64 {
	return BestOverlap(env.objSets, env.tokens[i])
}

// InferLevel derives a technical level from the density of jargon terms in
// the token stream. Density counts occurrences, not distinct terms.
func InferLevel(tokens []string, jargon map[string]struct{}) persona.Level {
	if len(tokens) == 0 {
		return persona.LevelBeginner
	}
	hits := 0
	for _, tok := range tokens {
		if _, ok := jargon[tok]; ok {
			hits++
		}
	}
	density := float64(hits) / float64(len(tokens))
	switch {
	case density >= densityExpert:
		return persona.LevelExpert
	case density >= densityAdvanced:
		return persona.LevelAdvanced
	case density >= densityIntermediate:
		return persona.LevelIntermediate
	default:
		return persona.LevelBeginner
	}
}

// KeywordOverlap sums the weights of keywords present in the token set.
// Keywords are visited in sorted order so the float sum is reproducible.
func KeywordOverlap(keywords map[string]float64, tokens map[string]struct{}) float64 {
	kws := make([]string, 0, len(keywords))
	for kw := range keywords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)

	var overlap float64
	for _, kw := range kws {
		if _, ok := tokens[kw]; ok {
			overlap += keywords[kw]
		}
	}
	return overlap
}

// ObjectiveSets tokenizes each objective phrase into a distinct-token set.
func ObjectiveSets(objectives []string, tok text.Tokenizer) []map[string]struct{} {
	sets := make([]map[string]struct{}, 0, len(objectives))
	for _, obj := range objectives {
		toks := tok.Tokens(obj)
		if len(toks) == 0 {
			continue
		}
		sets = append(sets, text.Set(toks))
	}
	return sets
}

// BestOverlap returns the maximum, over all objective token sets, of the
// ratio of objective tokens present in the token set. No objectives yields 0.
func BestOverlap(objSets []map[string]struct{}, tokens map[string]struct{}) float64 {
	best := 0.0
	for _, objSet := range objSets {
		matches := 0
		for tok := range objSet {
			if _, ok := tokens[tok]; ok {
				matches++
			}
		}
		if ratio := float64(matches) / float64(len(objSet)); ratio > best {
			best = ratio
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
