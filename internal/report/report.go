// Package report renders analysis results into the JSON output contract
// and writes them to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docrank/internal/refiner"
	"github.com/dgallion1/docrank/internal/scorer"
)

// DefaultTopK bounds both output lists when the caller does not choose.
const DefaultTopK = 5

// Metadata describes the analysis run.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section in the output.
type ExtractedSection struct {
	Document       string              `json:"document"`
	SectionTitle   string              `json:"section_title"`
	ImportanceRank int                 `json:"importance_rank"`
	PageNumber     int                 `json:"page_number"`
	Scores         scorer.FactorScores `json:"scores"`
}

// Subsection is one refined excerpt in the output.
type Subsection struct {
	Document    string   `json:"document"`
	RefinedText string   `json:"refined_text"`
	PageNumber  int      `json:"page_number"`
	InsightTags []string `json:"insight_tags"`
}

// Report is the full JSON document produced by an analysis run.
type Report struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`
}

// Build assembles a report from ranked sections and refined excerpts.
// Both output lists are limited to topK entries; zero or negative topK
// falls back to DefaultTopK. Build never mutates its inputs.
func Build(inputDocs []string, personaText, jobText string, ranked []scorer.RankedSection, excerpts []refiner.Excerpt, topK int, now time.Time) *Report {
	if topK <= 0 {
		topK = DefaultTopK
	}

	docs := inputDocs
	if docs == nil {
		docs = []string{}
	}

	r := &Report{
		Metadata: Metadata{
			InputDocuments:      docs,
			Persona:             personaText,
			JobToBeDone:         jobText,
			ProcessingTimestamp: now.Format(time.RFC3339),
		},
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []Subsection{},
	}

	limit := topK
	if limit > len(ranked) {
		limit = len(ranked)
	}
	for _, rs := range ranked[:limit] {
		r.ExtractedSections = append(r.ExtractedSections, ExtractedSection{
			Document:       rs.Section.DocumentID,
			SectionTitle:   rs.Section.Heading,
			ImportanceRank: rs.Rank,
			PageNumber:     rs.Section.PageNumber,
			Scores:         rs.Factors,
		})
	}

	limit = topK
	if limit > len(excerpts) {
		limit = len(excerpts)
	}
	for _, ex := range excerpts[:limit] {
		tags := ex.Tags
		if tags == nil {
			tags = []string{}
		}
		r.SubsectionAnalysis = append(r.SubsectionAnalysis, Subsection{
			Document:    ex.DocumentID,
			RefinedText: ex.Text(),
			PageNumber:  ex.PageNumber,
			InsightTags: tags,
		})
	}

	return r
}

// Write saves the report as indented JSON, creating parent directories
// as needed.
func Write(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Validate checks the structural requirements of the output contract.
func Validate(r *Report) bool {
	if r == nil {
		return false
	}
	if r.Metadata.ProcessingTimestamp == "" {
		return false
	}
	if r.Metadata.InputDocuments == nil {
		return false
	}
	if r.ExtractedSections == nil || r.SubsectionAnalysis == nil {
		return false
	}
	for _, es := range r.ExtractedSections {
		if es.Document == "" || es.ImportanceRank < 1 || es.PageNumber < 1 {
			return false
		}
	}
	for _, sub := range r.SubsectionAnalysis {
		if sub.Document == "" || sub.RefinedText == "" || sub.PageNumber < 1 {
			return false
		}
	}
	return true
}
