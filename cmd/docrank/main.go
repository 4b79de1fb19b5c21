package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/dgallion1/docrank/internal/report"
	"github.com/dgallion1/docrank/internal/scorer"
)

func main() {
	var (
		documentsDir = flag.String("documents", "", "directory of documents to analyze (required)")
		personaText  = flag.String("persona", "", "persona description, e.g. \"PhD researcher in computational biology\"")
		jobText      = flag.String("job", "", "job to be done, e.g. \"prepare a literature review on GNNs\"")
		outputPath   = flag.String("output", "analysis.json", "path for the JSON report")
		topK         = flag.Int("top", config.DefaultTopSections, "number of sections to keep in the report")
		maxSentences = flag.Int("max-sentences", config.DefaultMaxExcerptSentences, "sentence cap per refined excerpt")
		lexiconPath  = flag.String("lexicon", "", "lexicon YAML overriding the built-in role vocabulary")
		weightsPath  = flag.String("weights", "", "scoring weights calibration file")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *documentsDir == "" {
		fmt.Fprintln(os.Stderr, "usage: docrank -documents DIR -persona TEXT -job TEXT [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lex, err := persona.LoadLexicon(*lexiconPath)
	if err != nil {
		log.Warn("using default lexicon", "error", err)
	}
	weights, err := scorer.LoadWeights(*weightsPath)
	if err != nil {
		log.Warn("using default weights", "error", err)
	}

	stats := pipeline.NewStats(0)
	loader := pipeline.NewLoader(log, stats, config.DefaultMaxConcurrentParse, true)

	analyzer, err := pipeline.NewAnalyzer(lex, weights, log, stats, *topK, *maxSentences, config.DefaultMaxConcurrentVectorize)
	if err != nil {
		log.Error("failed to build analyzer", "error", err)
		os.Exit(1)
	}

	start := time.Now()

	corpus, err := loader.LoadDirectory(ctx, *documentsDir)
	if err != nil {
		log.Error("failed to load documents", "error", err)
		os.Exit(1)
	}
	for _, warning := range corpus.Warnings {
		log.Warn("document skipped or degraded", "detail", warning)
	}
	log.Info("corpus loaded", "documents", len(corpus.Documents), "sections", len(corpus.Sections))

	analysis, err := analyzer.Analyze(ctx, corpus.Sections, *personaText, *jobText, func(phase string) {
		log.Debug("phase started", "phase", phase)
	})
	if err != nil {
		if errors.Is(err, persona.ErrInsufficientInput) {
			log.Error("persona and job are both empty; pass -persona or -job")
		} else {
			log.Error("analysis failed", "error", err)
		}
		os.Exit(1)
	}

	rep := report.Build(corpus.Documents, *personaText, *jobText, analysis.Ranked, analysis.Excerpts, *topK, time.Now())
	if err := report.Write(*outputPath, rep); err != nil {
		log.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	log.Info("analysis written",
		"output", *outputPath,
		"documents", len(corpus.Documents),
		"sections_ranked", len(analysis.Ranked),
		"excerpts", len(analysis.Excerpts),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
}
