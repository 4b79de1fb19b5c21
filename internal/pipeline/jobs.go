package pipeline

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/report"
)

// ErrJobNotFound marks lookups of unknown or expired job IDs.
var ErrJobNotFound = errors.New("job not found")

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusProfiling JobStatus = "profiling"
	StatusScoring   JobStatus = "scoring"
	StatusRefining  JobStatus = "refining"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPartial:
		return true
	}
	return false
}

// Job tracks the state of a single analysis run.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	PersonaText string `json:"persona"`
	JobText     string `json:"job_to_be_done"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []Document
	result *report.Report
}

// Progress tracks how far an analysis has gotten.
type Progress struct {
	TotalDocuments    int      `json:"total_documents"`
	DocumentsParsed   int      `json:"documents_parsed"`
	SectionsExtracted int      `json:"sections_extracted"`
	SectionsRanked    int      `json:"sections_ranked"`
	Warnings          []string `json:"warnings"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns snapshots of every live job, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	snaps := make([]JobSnapshot, len(jobs))
	for i, job := range jobs {
		snaps[i] = job.Snapshot()
	}
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
	return snaps
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddWarning records a non-fatal problem.
func (j *Job) AddWarning(w string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Warnings = append(j.Progress.Warnings, w)
	j.UpdatedAt = time.Now()
}

// IncrDocumentsParsed atomically increments the parsed-document count.
func (j *Job) IncrDocumentsParsed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsParsed++
	j.UpdatedAt = time.Now()
}

// SetSectionsExtracted records how many sections survived parsing.
func (j *Job) SetSectionsExtracted(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsExtracted = n
	j.UpdatedAt = time.Now()
}

// SetSectionsRanked records how many sections were scored.
func (j *Job) SetSectionsRanked(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsRanked = n
	j.UpdatedAt = time.Now()
}

// SetFiles sets the raw uploaded documents for processing.
func (j *Job) SetFiles(docs []Document) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = docs
	j.Progress.TotalDocuments = len(docs)
}

// Files returns the raw uploaded documents.
func (j *Job) Files() []Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// SetReport stores the finished analysis report.
func (j *Job) SetReport(r *report.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Report returns the finished report, or nil when none exists yet.
func (j *Job) Report() *report.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	PersonaText string    `json:"persona"`
	JobText     string    `json:"job_to_be_done"`
	Documents   []string  `json:"documents"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	warnings := append([]string(nil), j.Progress.Warnings...)
	if warnings == nil {
		warnings = []string{}
	}
	docs := make([]string, len(j.files))
	for i, f := range j.files {
		docs[i] = f.Name
	}
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		PersonaText: j.PersonaText,
		JobText:     j.JobText,
		Documents:   docs,
		Progress: Progress{
			TotalDocuments:    j.Progress.TotalDocuments,
			DocumentsParsed:   j.Progress.DocumentsParsed,
			SectionsExtracted: j.Progress.SectionsExtracted,
			SectionsRanked:    j.Progress.SectionsRanked,
			Warnings:          warnings,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
