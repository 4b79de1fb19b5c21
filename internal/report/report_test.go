package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docrank/internal/refiner"
	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
)

func rankedFixture(n int) []scorer.RankedSection {
	var out []scorer.RankedSection
	for i := 0; i < n; i++ {
		out = append(out, scorer.RankedSection{
			Section: section.Section{
				DocumentID: "paper.pdf",
				PageNumber: i + 1,
				Heading:    "Results",
				Body:       "recall improved in the rested group.",
				Type:       section.TypeResults,
				Ordinal:    i,
			},
			Score:   1.0 - float64(i)*0.1,
			Factors: scorer.FactorScores{"similarity": 0.5},
			Rank:    i + 1,
		})
	}
	return out
}

func excerptFixture(n int) []refiner.Excerpt {
	var out []refiner.Excerpt
	for i := 0; i < n; i++ {
		out = append(out, refiner.Excerpt{
			DocumentID: "paper.pdf",
			PageNumber: i + 1,
			Heading:    "Results",
			Sentences:  []string{"Recall improved by eighteen percent."},
			Tags:       []string{refiner.TagQuantitative},
		})
	}
	return out
}

func TestBuild_FieldMapping(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Build([]string{"paper.pdf"}, "PhD Researcher", "literature review", rankedFixture(1), excerptFixture(1), 5, now)

	if len(r.Metadata.InputDocuments) != 1 || r.Metadata.InputDocuments[0] != "paper.pdf" {
		t.Errorf("input_documents: got %v", r.Metadata.InputDocuments)
	}
	if r.Metadata.Persona != "PhD Researcher" {
		t.Errorf("persona: got %q", r.Metadata.Persona)
	}
	if r.Metadata.JobToBeDone != "literature review" {
		t.Errorf("job_to_be_done: got %q", r.Metadata.JobToBeDone)
	}
	if _, err := time.Parse(time.RFC3339, r.Metadata.ProcessingTimestamp); err != nil {
		t.Errorf("timestamp not RFC 3339: %q", r.Metadata.ProcessingTimestamp)
	}

	if len(r.ExtractedSections) != 1 {
		t.Fatalf("expected 1 extracted section, got %d", len(r.ExtractedSections))
	}
	es := r.ExtractedSections[0]
	if es.Document != "paper.pdf" || es.SectionTitle != "Results" || es.ImportanceRank != 1 || es.PageNumber != 1 {
		t.Errorf("extracted section: got %+v", es)
	}
	if es.Scores["similarity"] != 0.5 {
		t.Errorf("expected factor scores embedded, got %v", es.Scores)
	}

	if len(r.SubsectionAnalysis) != 1 {
		t.Fatalf("expected 1 subsection, got %d", len(r.SubsectionAnalysis))
	}
	sub := r.SubsectionAnalysis[0]
	if sub.RefinedText != "Recall improved by eighteen percent." {
		t.Errorf("refined_text: got %q", sub.RefinedText)
	}
	if len(sub.InsightTags) != 1 || sub.InsightTags[0] != refiner.TagQuantitative {
		t.Errorf("insight_tags: got %v", sub.InsightTags)
	}
}

func TestBuild_TopKTruncation(t *testing.T) {
	r := Build([]string{"paper.pdf"}, "p", "j", rankedFixture(8), excerptFixture(8), 5, time.Now())
	if len(r.ExtractedSections) != 5 {
		t.Errorf("expected 5 extracted sections, got %d", len(r.ExtractedSections))
	}
	if len(r.SubsectionAnalysis) != 5 {
		t.Errorf("expected 5 subsections, got %d", len(r.SubsectionAnalysis))
	}
}

func TestBuild_ZeroTopKDefaults(t *testing.T) {
	r := Build(nil, "p", "j", rankedFixture(8), excerptFixture(8), 0, time.Now())
	if len(r.ExtractedSections) != DefaultTopK {
		t.Errorf("expected %d extracted sections, got %d", DefaultTopK, len(r.ExtractedSections))
	}
}

func TestBuild_EmptyCorpusMarshalsEmptyLists(t *testing.T) {
	r := Build(nil, "p", "j", nil, nil, 5, time.Now())

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"extracted_sections":[]`) {
		t.Errorf("expected empty extracted_sections array, got %s", s)
	}
	if !strings.Contains(s, `"subsection_analysis":[]`) {
		t.Errorf("expected empty subsection_analysis array, got %s", s)
	}
	if !strings.Contains(s, `"input_documents":[]`) {
		t.Errorf("expected empty input_documents array, got %s", s)
	}
}

func TestWrite_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "analysis.json")

	r := Build([]string{"a.txt"}, "p", "j", rankedFixture(1), excerptFixture(1), 5, time.Now())
	if err := Write(path, r); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.ExtractedSections) != 1 {
		t.Errorf("expected 1 extracted section after round trip, got %d", len(got.ExtractedSections))
	}
}

func TestValidate(t *testing.T) {
	good := Build([]string{"a.txt"}, "p", "j", rankedFixture(2), excerptFixture(2), 5, time.Now())
	if !Validate(good) {
		t.Error("expected valid report to pass")
	}

	if Validate(nil) {
		t.Error("expected nil report to fail")
	}

	noTS := Build(nil, "p", "j", nil, nil, 5, time.Now())
	noTS.Metadata.ProcessingTimestamp = ""
	if Validate(noTS) {
		t.Error("expected missing timestamp to fail")
	}

	badRank := Build([]string{"a.txt"}, "p", "j", rankedFixture(1), nil, 5, time.Now())
	badRank.ExtractedSections[0].ImportanceRank = 0
	if Validate(badRank) {
		t.Error("expected zero importance rank to fail")
	}
}
