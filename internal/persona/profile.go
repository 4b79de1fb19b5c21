package persona

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dgallion1/docrank/internal/text"
)

// ErrInsufficientInput is returned when both the persona and the job
// description are empty. One of the two may be blank; both may not.
var ErrInsufficientInput = errors.New("persona and job descriptions are both empty")

// Profile is the structured reading of a persona and job-to-be-done pair.
// Keywords map token to weight: persona-derived tokens weigh 2.0, job-only
// tokens 1.0.
type Profile struct {
	PersonaText    string
	JobText        string
	Role           string
	DomainTags     []string
	TechnicalLevel Level
	Keywords       map[string]float64
	Objectives     []string
}

const (
	personaKeywordWeight = 2.0
	jobKeywordWeight     = 1.0

	// A domain tag requires this many distinct lexicon terms in the input.
	domainTagThreshold = 2

	maxObjectiveTokens = 12
)

// Builder derives persona profiles from free text using an injected lexicon.
type Builder struct {
	lex *Lexicon
	tok text.Tokenizer
}

func NewBuilder(lex *Lexicon) *Builder {
	return &Builder{lex: lex, tok: text.NewTokenizer(lex.StopSet())}
}

// Build analyzes the persona and job descriptions. It fails only when both
// inputs are blank; every other degenerate input degrades to a neutral
// profile field.
func (b *Builder) Build(personaText, jobText string) (*Profile, error) {
	if strings.TrimSpace(personaText) == "" && strings.TrimSpace(jobText) == "" {
		return nil, ErrInsufficientInput
	}

	p := &Profile{PersonaText: personaText, JobText: jobText}
	p.Role = b.detectRole(personaText)
	p.DomainTags = b.detectDomains(personaText + " " + jobText)
	p.TechnicalLevel = b.detectLevel(personaText, p.Role)
	p.Keywords = b.buildKeywords(personaText, jobText)
	p.Objectives = splitObjectives(jobText)
	return p, nil
}

// detectRole matches persona tokens against the role lexicon in priority
// order. No hit yields the generalist role.
func (b *Builder) detectRole(personaText string) string {
	toks := text.Set(text.Words(personaText))
	for _, rm := range b.lex.Roles {
		for _, marker := range rm.Markers {
			if _, ok := toks[marker]; ok {
				return rm.Role
			}
		}
	}
	return RoleGeneralist
}

// detectDomains tags every domain whose lexicon contributes at least
// domainTagThreshold distinct terms to the combined text. Tags come out in
// lexicon declaration order so downstream iteration is deterministic.
func (b *Builder) detectDomains(combined string) []string {
	toks := text.Set(text.Words(combined))
	var tags []string
	for _, d := range b.lex.Domains {
		hits := 0
		for _, term := range d.Terms {
			if _, ok := toks[term]; ok {
				hits++
			}
		}
		if hits >= domainTagThreshold {
			tags = append(tags, d.Name)
		}
	}
	return tags
}

// detectLevel scans explicit level markers in lexicon order (beginner first)
// and falls back to the role-derived default.
func (b *Builder) detectLevel(personaText, role string) Level {
	toks := text.Set(text.Words(personaText))
	for _, lm := range b.lex.levelMarks {
		for tok := range toks {
			if _, ok := lm.markers[tok]; ok {
				return lm.level
			}
		}
	}
	return b.lex.RoleLevel(role)
}

func (b *Builder) buildKeywords(personaText, jobText string) map[string]float64 {
	kw := make(map[string]float64)
	for _, tok := range b.tok.Tokens(personaText) {
		kw[tok] = personaKeywordWeight
	}
	for _, tok := range b.tok.Tokens(jobText) {
		if kw[tok] < jobKeywordWeight {
			kw[tok] = jobKeywordWeight
		}
	}
	return kw
}

var objectiveSplit = regexp.MustCompile(`[,;:.!?]|\band\b|\bor\b|\bbut\b|\bthen\b`)

// splitObjectives breaks the job text into short phrases on coordinating
// conjunctions and punctuation. Phrases keep their original order, are
// capped at maxObjectiveTokens tokens, and exact duplicates are dropped.
func splitObjectives(jobText string) []string {
	parts := objectiveSplit.Split(strings.ToLower(jobText), -1)
	seen := make(map[string]struct{}, len(parts))
	var out []string
	for _, part := range parts {
		words := strings.Fields(part)
		if len(words) == 0 {
			continue
		}
		if len(words) > maxObjectiveTokens {
			words = words[:maxObjectiveTokens]
		}
		phrase := strings.Join(words, " ")
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	return out
}
