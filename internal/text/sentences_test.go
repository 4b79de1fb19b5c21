package text

import (
	"reflect"
	"testing"
)

func TestProseSplitter_BasicSplit(t *testing.T) {
	sp := NewSplitter()
	got := sp.Split("The model converged. Accuracy improved by ten percent. Training stopped early.")
	want := []string{
		"The model converged.",
		"Accuracy improved by ten percent.",
		"Training stopped early.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestProseSplitter_AbbreviationsDoNotSplit(t *testing.T) {
	sp := NewSplitter()
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"honorific", "Results reported by Dr. Smith were reproduced twice.", 1},
		{"for example", "Several baselines, e.g. Random forests, were weaker.", 1},
		{"et al", "As shown by Chen et al. Performance degrades at scale.", 1},
		{"figure", "See Fig. Three for the full topology.", 1},
		{"versus", "We compare GNN vs. Transformer architectures on both tasks.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sp.Split(tt.input)
			if len(got) != tt.want {
				t.Errorf("expected %d sentence(s), got %d: %v", tt.want, len(got), got)
			}
		})
	}
}

func TestProseSplitter_LowercaseContinuationDoesNotSplit(t *testing.T) {
	sp := NewSplitter()
	got := sp.Split("The pipeline ran for 3.5 hours. then it was restarted.")
	if len(got) != 1 {
		t.Errorf("expected 1 sentence when no capital follows, got %d: %v", len(got), got)
	}
}

func TestProseSplitter_DecimalNumbersDoNotSplit(t *testing.T) {
	sp := NewSplitter()
	got := sp.Split("Throughput reached 3.14 million requests per second on Run A.")
	if len(got) != 1 {
		t.Errorf("expected 1 sentence, got %d: %v", len(got), got)
	}
}

func TestProseSplitter_QuestionAndExclamation(t *testing.T) {
	sp := NewSplitter()
	got := sp.Split("Does it generalize? Early results say yes! More work remains.")
	want := []string{
		"Does it generalize?",
		"Early results say yes!",
		"More work remains.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestProseSplitter_TrailingTextWithoutTerminator(t *testing.T) {
	sp := NewSplitter()
	got := sp.Split("First sentence here. Trailing fragment without punctuation")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if got[1] != "Trailing fragment without punctuation" {
		t.Errorf("expected trailing fragment preserved, got %q", got[1])
	}
}

func TestProseSplitter_EmptyInput(t *testing.T) {
	sp := NewSplitter()
	if got := sp.Split(""); len(got) != 0 {
		t.Errorf("expected no sentences for empty input, got %v", got)
	}
	if got := sp.Split("   \n  "); len(got) != 0 {
		t.Errorf("expected no sentences for blank input, got %v", got)
	}
}
