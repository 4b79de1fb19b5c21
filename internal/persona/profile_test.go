package persona

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(DefaultLexicon())
}

func TestBuilder_BothInputsEmpty(t *testing.T) {
	b := testBuilder(t)
	for _, tt := range []struct{ persona, job string }{
		{"", ""},
		{"   ", "\n\t"},
	} {
		if _, err := b.Build(tt.persona, tt.job); !errors.Is(err, ErrInsufficientInput) {
			t.Errorf("Build(%q, %q): expected ErrInsufficientInput, got %v", tt.persona, tt.job, err)
		}
	}
}

func TestBuilder_OneEmptyInputAllowed(t *testing.T) {
	b := testBuilder(t)
	if _, err := b.Build("PhD Researcher", ""); err != nil {
		t.Errorf("expected empty job to be allowed, got %v", err)
	}
	if _, err := b.Build("", "Summarize quarterly revenue figures"); err != nil {
		t.Errorf("expected empty persona to be allowed, got %v", err)
	}
}

func TestBuilder_RoleDetection(t *testing.T) {
	b := testBuilder(t)
	tests := []struct {
		persona string
		want    string
	}{
		{"PhD Researcher in Computational Biology", "researcher"},
		{"Undergraduate student preparing for exams", "student"},
		{"Investment analyst at a retail bank", "analyst"},
		{"Engineering manager for a platform team", "manager"},
		{"Backend developer moving into data work", "developer"},
		{"Compliance consultant for mid-size firms", "consultant"},
		{"Technology journalist covering startups", "journalist"},
		{"A curious reader with spare time", "generalist"},
	}
	for _, tt := range tests {
		p, err := b.Build(tt.persona, "review the documents")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.persona, err)
		}
		if p.Role != tt.want {
			t.Errorf("persona %q: expected role %q, got %q", tt.persona, tt.want, p.Role)
		}
	}
}

func TestBuilder_RolePriorityOrder(t *testing.T) {
	b := testBuilder(t)
	// "researcher" precedes "student" in the lexicon, so it wins even when
	// the student marker appears first in the text.
	p, err := b.Build("Graduate student and part-time researcher", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != "researcher" {
		t.Errorf("expected role %q, got %q", "researcher", p.Role)
	}
}

func TestBuilder_TechnicalLevelExplicitMarker(t *testing.T) {
	b := testBuilder(t)
	tests := []struct {
		persona string
		want    Level
	}{
		{"Complete beginner exploring the field", LevelBeginner},
		{"Junior analyst on a trading desk", LevelIntermediate},
		{"Senior engineer with a decade of experience", LevelAdvanced},
		{"Professor of molecular biology", LevelExpert},
		{"PhD Researcher in Computational Biology", LevelExpert},
	}
	for _, tt := range tests {
		p, err := b.Build(tt.persona, "")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.persona, err)
		}
		if p.TechnicalLevel != tt.want {
			t.Errorf("persona %q: expected level %v, got %v", tt.persona, tt.want, p.TechnicalLevel)
		}
	}
}

func TestBuilder_TechnicalLevelRoleFallback(t *testing.T) {
	b := testBuilder(t)
	// No explicit level markers; the role default applies.
	p, err := b.Build("Software developer on the storage team", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TechnicalLevel != LevelAdvanced {
		t.Errorf("expected developer fallback %v, got %v", LevelAdvanced, p.TechnicalLevel)
	}

	p, err = b.Build("A curious mind", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TechnicalLevel != LevelIntermediate {
		t.Errorf("expected generalist fallback %v, got %v", LevelIntermediate, p.TechnicalLevel)
	}
}

func TestBuilder_KeywordWeights(t *testing.T) {
	b := testBuilder(t)
	p, err := b.Build("machine learning specialist", "build learning pipelines")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		token string
		want  float64
	}{
		{"machine", 2.0},
		{"specialist", 2.0},
		{"learning", 2.0}, // in both; max weight wins
		{"build", 1.0},
		{"pipelines", 1.0},
	}
	for _, tt := range tests {
		if got := p.Keywords[tt.token]; got != tt.want {
			t.Errorf("keyword %q: expected weight %.1f, got %.1f", tt.token, tt.want, got)
		}
	}
	if _, ok := p.Keywords["the"]; ok {
		t.Error("expected stop word to be excluded from keywords")
	}
}

func TestBuilder_KeywordMinLength(t *testing.T) {
	b := testBuilder(t)
	p, err := b.Build("an ML ops guru", "do it now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for tok := range p.Keywords {
		if len(tok) < 3 {
			t.Errorf("expected no keywords shorter than 3 chars, got %q", tok)
		}
	}
}

func TestBuilder_DomainTags(t *testing.T) {
	b := testBuilder(t)
	p, err := b.Build(
		"PhD Researcher in Computational Biology",
		"Prepare a literature review focusing on methodologies used in machine learning approaches",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"academic"}
	if !reflect.DeepEqual(p.DomainTags, want) {
		t.Errorf("expected domain tags %v, got %v", want, p.DomainTags)
	}
}

func TestBuilder_DomainTagsRequireTwoTerms(t *testing.T) {
	b := testBuilder(t)
	// Only one legal lexicon term; no tag may be set from a single hit.
	p, err := b.Build("Paralegal interested in regulation", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tag := range p.DomainTags {
		if tag == "legal" {
			t.Errorf("expected no legal tag from a single term, got tags %v", p.DomainTags)
		}
	}

	p, err = b.Build("Counsel reviewing contract compliance and regulation", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, tag := range p.DomainTags {
		if tag == "legal" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected legal tag from three terms, got tags %v", p.DomainTags)
	}
}

func TestBuilder_DomainTagOrderDeterministic(t *testing.T) {
	b := testBuilder(t)
	persona := "Researcher studying clinical treatment data and market strategy analysis"
	job := "Assess revenue impact of patient diagnosis workflows in the literature"
	first, err := b.Build(persona, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		p, err := b.Build(persona, job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(p.DomainTags, first.DomainTags) {
			t.Fatalf("expected stable tag order %v, got %v", first.DomainTags, p.DomainTags)
		}
	}
}

func TestSplitObjectives_ConjunctionsAndPunctuation(t *testing.T) {
	got := splitObjectives("Prepare a literature review focusing on methodologies, and summarize key findings. Compare benchmark results")
	want := []string{
		"prepare a literature review focusing on methodologies",
		"summarize key findings",
		"compare benchmark results",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSplitObjectives_DedupPreservesOrder(t *testing.T) {
	got := splitObjectives("review methods and compare results and review methods")
	want := []string{"review methods", "compare results"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSplitObjectives_TokenCap(t *testing.T) {
	long := "identify one two three four five six seven eight nine ten eleven twelve thirteen"
	got := splitObjectives(long)
	if len(got) != 1 {
		t.Fatalf("expected 1 phrase, got %d", len(got))
	}
	words := len(strings.Fields(got[0]))
	if words != maxObjectiveTokens {
		t.Errorf("expected phrase capped at %d tokens, got %d", maxObjectiveTokens, words)
	}
}

func TestSplitObjectives_EmptyJob(t *testing.T) {
	if got := splitObjectives(""); len(got) != 0 {
		t.Errorf("expected no objectives for empty job, got %v", got)
	}
}
