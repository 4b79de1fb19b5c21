package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoleMarker binds a role name to the tokens that signal it in persona text.
// Roles are matched in declaration order; the first hit wins. Level is the
// role-derived technical level used when no explicit level marker appears.
type RoleMarker struct {
	Role    string   `yaml:"role"`
	Markers []string `yaml:"markers"`
	Level   string   `yaml:"level"`
}

// DomainLexicon is the term list for one knowledge domain.
type DomainLexicon struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// LevelMarker binds a technical level to explicit persona tokens. Levels are
// scanned in declaration order; the first marker hit wins.
type LevelMarker struct {
	Level   string   `yaml:"level"`
	Markers []string `yaml:"markers"`
}

// RoleGeneralist is assigned when no role marker matches.
const RoleGeneralist = "generalist"

// Lexicon carries every wordlist the profiling and scoring stages consult.
// The zero value is unusable; construct via DefaultLexicon or LoadLexicon.
type Lexicon struct {
	Roles     []RoleMarker    `yaml:"roles"`
	Domains   []DomainLexicon `yaml:"domains"`
	Levels    []LevelMarker   `yaml:"levels"`
	StopWords []string        `yaml:"stop_words"`
	Jargon    []string        `yaml:"jargon"`

	stop       map[string]struct{}
	jargon     map[string]struct{}
	domainSets map[string]map[string]struct{}
	roleLevels map[string]Level
	levelMarks []parsedLevel
}

type parsedLevel struct {
	level   Level
	markers map[string]struct{}
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		Roles: []RoleMarker{
			{Role: "researcher", Markers: []string{"researcher", "scientist", "phd", "academic", "scholar"}, Level: "advanced"},
			{Role: "student", Markers: []string{"student", "undergraduate", "graduate", "learner"}, Level: "beginner"},
			{Role: "analyst", Markers: []string{"analyst", "analyzes", "analysis"}, Level: "intermediate"},
			{Role: "manager", Markers: []string{"manager", "director", "executive", "lead"}, Level: "intermediate"},
			{Role: "developer", Markers: []string{"developer", "engineer", "programmer", "architect"}, Level: "advanced"},
			{Role: "consultant", Markers: []string{"consultant", "advisor", "specialist"}, Level: "advanced"},
			{Role: "journalist", Markers: []string{"journalist", "reporter", "writer", "editor"}, Level: "intermediate"},
		},
		Domains: []DomainLexicon{
			{Name: "academic", Terms: []string{"research", "study", "literature", "methodology", "analysis", "academic", "scholar", "phd", "thesis", "publication"}},
			{Name: "business", Terms: []string{"revenue", "profit", "market", "strategy", "investment", "analysis", "financial", "business", "commercial", "corporate"}},
			{Name: "technical", Terms: []string{"algorithm", "implementation", "system", "performance", "optimization", "technical", "engineering", "development"}},
			{Name: "educational", Terms: []string{"learning", "student", "exam", "study", "concept", "understanding", "knowledge", "curriculum", "course"}},
			{Name: "scientific", Terms: []string{"experiment", "hypothesis", "data", "observation", "scientific", "laboratory", "research"}},
			{Name: "legal", Terms: []string{"law", "legal", "regulation", "compliance", "policy", "contract", "litigation"}},
			{Name: "medical", Terms: []string{"clinical", "patient", "treatment", "diagnosis", "medical", "health", "therapy", "disease"}},
		},
		Levels: []LevelMarker{
			{Level: "beginner", Markers: []string{"beginner", "novice", "basic", "introductory", "freshman"}},
			{Level: "intermediate", Markers: []string{"intermediate", "moderate", "undergraduate", "junior"}},
			{Level: "advanced", Markers: []string{"advanced", "experienced", "senior", "graduate"}},
			{Level: "expert", Markers: []string{"expert", "phd", "professor", "specialist", "authority", "master"}},
		},
		StopWords: []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
			"by", "from", "is", "are", "was", "were", "be", "been", "have", "has", "had", "do",
			"does", "did", "will", "would", "could", "should", "may", "might", "can", "this",
			"that", "these", "those", "i", "you", "he", "she", "it", "we", "they", "me", "him",
			"her", "us", "them", "my", "your", "his", "its", "our", "their",
		},
		Jargon: []string{
			"algorithm", "asymptotic", "architecture", "bayesian", "coefficient", "convergence",
			"covariance", "eigenvalue", "empirical", "entropy", "framework", "gradient",
			"heuristic", "hypothesis", "inference", "infrastructure", "latency", "methodology",
			"neural", "optimization", "parameter", "quantitative", "regression", "scalability",
			"statistical", "stochastic", "throughput", "topology", "variance", "vector",
		},
	}
	if err := lex.finish(); err != nil {
		// The built-in tables are static; a parse failure here is a bug.
		panic(err)
	}
	return lex
}

// LoadLexicon reads a YAML lexicon file and merges it over the defaults.
// Non-empty lists in the file replace the corresponding default list
// wholesale. If the path is empty, missing, or malformed, the defaults are
// returned (with the error, so callers can log it once).
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultLexicon(), fmt.Errorf("read lexicon file: %w", err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return DefaultLexicon(), fmt.Errorf("parse lexicon file: %w", err)
	}

	merged := mergeLexicon(DefaultLexicon(), &override)
	if err := merged.finish(); err != nil {
		return DefaultLexicon(), fmt.Errorf("validate lexicon file: %w", err)
	}
	return merged, nil
}

// mergeLexicon overlays non-empty override lists on the base.
func mergeLexicon(base, override *Lexicon) *Lexicon {
	merged := &Lexicon{
		Roles:     base.Roles,
		Domains:   base.Domains,
		Levels:    base.Levels,
		StopWords: base.StopWords,
		Jargon:    base.Jargon,
	}
	if len(override.Roles) > 0 {
		merged.Roles = override.Roles
	}
	if len(override.Domains) > 0 {
		merged.Domains = override.Domains
	}
	if len(override.Levels) > 0 {
		merged.Levels = override.Levels
	}
	if len(override.StopWords) > 0 {
		merged.StopWords = override.StopWords
	}
	if len(override.Jargon) > 0 {
		merged.Jargon = override.Jargon
	}
	return merged
}

// finish builds the lookup caches and validates level names.
func (l *Lexicon) finish() error {
	l.stop = make(map[string]struct{}, len(l.StopWords))
	for _, w := range l.StopWords {
		l.stop[w] = struct{}{}
	}

	l.jargon = make(map[string]struct{}, len(l.Jargon))
	for _, w := range l.Jargon {
		l.jargon[w] = struct{}{}
	}

	l.domainSets = make(map[string]map[string]struct{}, len(l.Domains))
	for _, d := range l.Domains {
		set := make(map[string]struct{}, len(d.Terms))
		for _, term := range d.Terms {
			set[term] = struct{}{}
		}
		l.domainSets[d.Name] = set
	}

	l.roleLevels = make(map[string]Level, len(l.Roles))
	for _, r := range l.Roles {
		lvl, err := ParseLevel(r.Level)
		if err != nil {
			return fmt.Errorf("role %q: %w", r.Role, err)
		}
		l.roleLevels[r.Role] = lvl
	}

	l.levelMarks = l.levelMarks[:0]
	for _, lm := range l.Levels {
		lvl, err := ParseLevel(lm.Level)
		if err != nil {
			return err
		}
		set := make(map[string]struct{}, len(lm.Markers))
		for _, m := range lm.Markers {
			set[m] = struct{}{}
		}
		l.levelMarks = append(l.levelMarks, parsedLevel{level: lvl, markers: set})
	}
	return nil
}

// StopSet returns the stop-word membership set shared by all tokenizers.
func (l *Lexicon) StopSet() map[string]struct{} { return l.stop }

// JargonSet returns the jargon terms used for section level inference.
func (l *Lexicon) JargonSet() map[string]struct{} { return l.jargon }

// DomainTerms returns the term set for a domain tag, or nil if unknown.
func (l *Lexicon) DomainTerms(name string) map[string]struct{} { return l.domainSets[name] }

// RoleLevel returns the role-derived default technical level.
func (l *Lexicon) RoleLevel(role string) Level {
	if lvl, ok := l.roleLevels[role]; ok {
		return lvl
	}
	return LevelIntermediate
}
