package scorer

import (
	"sort"

	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/text"
	"github.com/dgallion1/docrank/internal/vector"
)

// RankedSection pairs a section with its composite score, per-factor
// breakdown, and 1-based rank.
type RankedSection struct {
	Section section.Section `json:"section"`
	Score   float64         `json:"score"`
	Factors FactorScores    `json:"factors"`
	Rank    int             `json:"rank"`
}

// factor is one entry of the ordered factor table the composite score is
// folded over.
type factor struct {
	name    string
	weight  float64
	compute func(s *Scorer, env *corpusEnv, i int) float64
}

// Scorer ranks sections against a persona profile using the six weighted
// factors. Construction fails when the weight table is invalid.
type Scorer struct {
	lex     *persona.Lexicon
	tok     text.Tokenizer
	factors []factor
}

func New(lex *persona.Lexicon, w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		lex: lex,
		tok: text.NewTokenizer(lex.StopSet()),
		factors: []factor{
			{name: "similarity", weight: w.Similarity, compute: similarity},
			{name: "keyword_match", weight: w.KeywordMatch, compute: keywordMatch},
			{name: "domain_relevance", weight: w.DomainRelevance, compute: domainRelevance},
			{name: "structural_importance", weight: w.StructuralImportance, compute: structuralImportance},
			{name: "technical_alignment", weight: w.TechnicalAlignment, compute: technicalAlignment},
			{name: "objective_alignment", weight: w.ObjectiveAlignment, compute: objectiveAlignment},
		},
	}, nil
}

// Rank scores every section and returns them ordered by composite score
// descending, exact ties broken by corpus ordinal ascending. An empty
// corpus returns nil. Each factor value is clamped to [0,1] before
// weighting, so composites always land in [0,1].
func (s *Scorer) Rank(sections []section.Section, vecs []vector.Vector, query vector.Vector, profile *persona.Profile) []RankedSection {
	if len(sections) == 0 {
		return nil
	}
	env := s.buildEnv(sections, vecs, query, profile)

	ranked := make([]RankedSection, len(sections))
	for i, sec := range sections {
		fs := make(FactorScores, len(s.factors))
		var composite float64
		for _, f := range s.factors {
			val := clamp01(f.compute(s, env, i))
			fs[f.name] = val
			composite += f.weight * val
		}
		ranked[i] = RankedSection{Section: sec, Score: composite, Factors: fs}
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Section.Ordinal < ranked[b].Section.Ordinal
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// buildEnv precomputes everything the factors share: token sets over
// heading plus body, inferred levels, keyword overlaps with the corpus
// maximum, and objective token sets.
func (s *Scorer) buildEnv(sections []section.Section, vecs []vector.Vector, query vector.Vector, profile *persona.Profile) *corpusEnv {
	env := &corpusEnv{
		sections: sections,
		vecs:     vecs,
		query:    query,
		profile:  profile,
		tokens:   make([]map[string]struct{}, len(sections)),
		levels:   make([]persona.Level, len(sections)),
		overlaps: make([]float64, len(sections)),
		objSets:  ObjectiveSets(profile.Objectives, s.tok),
	}

	jargon := s.lex.JargonSet()
	for i, sec := range sections {
		toks := s.tok.Tokens(sec.Heading + " " + sec.Body)
		env.tokens[i] = text.Set(toks)
		env.levels[i] = InferLevel(toks, jargon)
		env.overlaps[i] = KeywordOverlap(profile.Keywords, env.tokens[i])
		if env.overlaps[i] > env.maxOverlap {
			env.maxOverlap = env.overlaps[i]
		}
	}
	return env
}
