package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/scorer"
)

// Orchestrator manages the document analysis pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	log   *slog.Logger
	cfg   config.Config

	loader   *Loader
	analyzer *Analyzer
	stats    *Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the loader and analyzer from config. Lexicon and
// weights files that fail to load degrade to built-in defaults; weights
// that merge into an invalid table are a construction error.
func NewOrchestrator(cfg config.Config, log *slog.Logger) (*Orchestrator, error) {
	lex, err := persona.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Warn("using default lexicon", "error", err)
	}
	weights, err := scorer.LoadWeights(cfg.WeightsPath)
	if err != nil {
		log.Warn("using default weights", "error", err)
	}

	stats := NewStats(time.Hour)
	analyzer, err := NewAnalyzer(lex, weights, log, stats,
		cfg.TopSections, cfg.MaxExcerptSentences, cfg.MaxConcurrentVectorize)
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		log:      log,
		cfg:      cfg,
		loader:   NewLoader(log, stats, cfg.MaxConcurrentParse, cfg.PDFFallbackPdftotext),
		analyzer: analyzer,
		stats:    stats,
	}, nil
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.loader, o.analyzer, o.log, o.cfg.TopSections)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Jobs returns snapshots of all live jobs, newest first.
func (o *Orchestrator) Jobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the per-phase duration tracker for direct use by API handlers.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
