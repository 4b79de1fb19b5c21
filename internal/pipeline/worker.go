package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/report"
)

// Worker processes a single analysis job.
type Worker struct {
	loader   *Loader
	analyzer *Analyzer
	log      *slog.Logger
	topK     int
}

func NewWorker(loader *Loader, analyzer *Analyzer, log *slog.Logger, topK int) *Worker {
	return &Worker{
		loader:   loader,
		analyzer: analyzer,
		log:      log,
		topK:     topK,
	}
}

// statusForPhase maps analysis phases onto job statuses. Vectorizing has no
// status of its own; it reports as scoring.
func statusForPhase(phase string) (JobStatus, string) {
	switch phase {
	case PhaseProfile:
		return StatusProfiling, "profiling"
	case PhaseVectorize:
		return StatusScoring, "vectorizing"
	case PhaseScore:
		return StatusScoring, "scoring"
	case PhaseRefine:
		return StatusRefining, "refining"
	}
	return StatusScoring, phase
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	files := job.Files()
	corpus := w.loader.Load(ctx, files, job.IncrDocumentsParsed)
	for _, warn := range corpus.Warnings {
		job.AddWarning(warn)
	}
	job.SetSectionsExtracted(len(corpus.Sections))
	log.Info("corpus loaded",
		"documents", len(corpus.Documents),
		"sections", len(corpus.Sections),
		"warnings", len(corpus.Warnings))

	if len(files) > 0 && len(corpus.Documents) == 0 {
		log.Error("no document could be parsed")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phases 2-5: profile, vectorize, score, refine. An empty corpus still
	// completes, with an empty report.
	analysis, err := w.analyzer.Analyze(ctx, corpus.Sections, job.PersonaText, job.JobText,
		func(phase string) {
			status, label := statusForPhase(phase)
			job.SetStatus(status, label)
		})
	if err != nil {
		if errors.Is(err, persona.ErrInsufficientInput) {
			log.Error("rejecting job", "error", err)
		} else {
			log.Error("analysis failed", "error", err)
		}
		job.AddWarning(err.Error())
		job.SetStatus(StatusFailed, "analysis")
		return
	}

	rep := report.Build(corpus.Documents, job.PersonaText, job.JobText,
		analysis.Ranked, analysis.Excerpts, w.topK, time.Now())
	job.SetReport(rep)
	job.SetSectionsRanked(len(analysis.Ranked))

	status := StatusCompleted
	if len(corpus.Warnings) > 0 {
		status = StatusPartial
	}
	job.SetStatus(status, "done")
	log.Info("analysis complete",
		"status", status,
		"ranked", len(analysis.Ranked),
		"excerpts", len(analysis.Excerpts))
}
