package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/refiner"
	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/text"
	"github.com/dgallion1/docrank/internal/vector"
)

// PhaseFunc observes phase transitions during an analysis. Implementations
// must be fast; they run on the analysis goroutine.
type PhaseFunc func(phase string)

// Analysis is the full outcome of one persona-driven ranking pass.
type Analysis struct {
	Profile  *persona.Profile
	Ranked   []scorer.RankedSection
	Excerpts []refiner.Excerpt
}

// Analyzer runs the profile -> vectorize -> score -> refine sequence over
// an already-parsed corpus. It is safe for concurrent use.
type Analyzer struct {
	builder      *persona.Builder
	scorer       *scorer.Scorer
	refiner      *refiner.Refiner
	tok          text.Tokenizer
	log          *slog.Logger
	stats        *Stats
	topK         int
	maxVectorize int
}

func NewAnalyzer(lex *persona.Lexicon, weights scorer.Weights, log *slog.Logger, stats *Stats, topK, maxSentences, maxConcurrentVectorize int) (*Analyzer, error) {
	sc, err := scorer.New(lex, weights)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if stats == nil {
		stats = NewStats(0)
	}
	if topK <= 0 {
		topK = 5
	}
	if maxConcurrentVectorize <= 0 {
		maxConcurrentVectorize = 1
	}
	return &Analyzer{
		builder:      persona.NewBuilder(lex),
		scorer:       sc,
		refiner:      refiner.New(lex, maxSentences),
		tok:          text.NewTokenizer(lex.StopSet()),
		log:          log,
		stats:        stats,
		topK:         topK,
		maxVectorize: maxConcurrentVectorize,
	}, nil
}

// Analyze ranks sections for the persona and job descriptions. An empty
// corpus yields an Analysis with only the profile set. Vectorization runs
// under a bounded pool with results slotted by index, so output never
// depends on goroutine scheduling.
func (a *Analyzer) Analyze(ctx context.Context, sections []section.Section, personaText, jobText string, onPhase PhaseFunc) (*Analysis, error) {
	phase := func(name string) {
		if onPhase != nil {
			onPhase(name)
		}
	}

	phase(PhaseProfile)
	start := time.Now()
	profile, err := a.builder.Build(personaText, jobText)
	if err != nil {
		return nil, err
	}
	a.stats.Record(PhaseProfile, time.Since(start))

	if len(sections) == 0 {
		return &Analysis{Profile: profile}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase(PhaseVectorize)
	start = time.Now()
	bodies := make([]string, len(sections))
	for i, sec := range sections {
		bodies[i] = sec.Body
	}
	space := vector.Fit(bodies, profile.Keywords, a.tok)

	vecs := make([]vector.Vector, len(sections))
	sem := make(chan struct{}, a.maxVectorize)
	var wg sync.WaitGroup
	for i := range sections {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			vecs[i] = space.Vectorize(bodies[i])
		}(i)
	}
	wg.Wait()
	query := space.Query(profile.Keywords)
	a.stats.Record(PhaseVectorize, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase(PhaseScore)
	start = time.Now()
	ranked := a.scorer.Rank(sections, vecs, query, profile)
	a.stats.Record(PhaseScore, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase(PhaseRefine)
	start = time.Now()
	top := ranked
	if len(top) > a.topK {
		top = top[:a.topK]
	}
	excerpts := a.refiner.Refine(top, profile)
	a.stats.Record(PhaseRefine, time.Since(start))

	a.log.Debug("analysis complete",
		"sections", len(sections),
		"ranked", len(ranked),
		"excerpts", len(excerpts))
	return &Analysis{Profile: profile, Ranked: ranked, Excerpts: excerpts}, nil
}
