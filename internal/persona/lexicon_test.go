package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLexicon_Complete(t *testing.T) {
	lex := DefaultLexicon()
	if len(lex.Roles) == 0 {
		t.Error("expected default roles")
	}
	if len(lex.Domains) != 7 {
		t.Errorf("expected 7 default domains, got %d", len(lex.Domains))
	}
	if len(lex.Levels) != 4 {
		t.Errorf("expected 4 level entries, got %d", len(lex.Levels))
	}
	if len(lex.StopSet()) == 0 {
		t.Error("expected non-empty stop set")
	}
	if len(lex.JargonSet()) == 0 {
		t.Error("expected non-empty jargon set")
	}
}

func TestDefaultLexicon_DomainTermsLookup(t *testing.T) {
	lex := DefaultLexicon()
	terms := lex.DomainTerms("academic")
	if terms == nil {
		t.Fatal("expected academic domain terms")
	}
	if _, ok := terms["literature"]; !ok {
		t.Error("expected literature in academic terms")
	}
	if lex.DomainTerms("nonexistent") != nil {
		t.Error("expected nil for unknown domain")
	}
}

func TestRoleLevel_Defaults(t *testing.T) {
	lex := DefaultLexicon()
	if got := lex.RoleLevel("researcher"); got != LevelAdvanced {
		t.Errorf("expected researcher default %v, got %v", LevelAdvanced, got)
	}
	if got := lex.RoleLevel(RoleGeneralist); got != LevelIntermediate {
		t.Errorf("expected generalist default %v, got %v", LevelIntermediate, got)
	}
	if got := lex.RoleLevel("no-such-role"); got != LevelIntermediate {
		t.Errorf("expected unknown role default %v, got %v", LevelIntermediate, got)
	}
}

func TestLoadLexicon_EmptyPathUsesDefaults(t *testing.T) {
	lex, err := LoadLexicon("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lex.Domains) != 7 {
		t.Errorf("expected default domains, got %d", len(lex.Domains))
	}
}

func TestLoadLexicon_MissingFileFallsBack(t *testing.T) {
	lex, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if lex == nil || len(lex.Domains) != 7 {
		t.Error("expected default lexicon despite error")
	}
}

func TestLoadLexicon_OverrideReplacesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `
jargon:
  - quantization
  - distillation
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lex.JargonSet()) != 2 {
		t.Errorf("expected 2 jargon terms after override, got %d", len(lex.JargonSet()))
	}
	if _, ok := lex.JargonSet()["quantization"]; !ok {
		t.Error("expected overridden jargon term")
	}
	// Untouched lists keep their defaults.
	if len(lex.Domains) != 7 {
		t.Errorf("expected default domains preserved, got %d", len(lex.Domains))
	}
	if len(lex.StopSet()) == 0 {
		t.Error("expected default stop words preserved")
	}
}

func TestLoadLexicon_MalformedYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("roles: [unclosed"), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
	if lex == nil || len(lex.Domains) != 7 {
		t.Error("expected default lexicon despite error")
	}
}

func TestLoadLexicon_BadLevelNameFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	content := `
levels:
  - level: wizard
    markers: [sorcery]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err == nil {
		t.Error("expected error for unknown level name")
	}
	if lex == nil || len(lex.Levels) != 4 {
		t.Error("expected default levels despite error")
	}
}

func TestParseLevel_RoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert} {
		got, err := ParseLevel(lvl.String())
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", lvl, err)
		}
		if got != lvl {
			t.Errorf("expected %v, got %v", lvl, got)
		}
	}
	if _, err := ParseLevel("guru"); err == nil {
		t.Error("expected error for unknown level")
	}
}
