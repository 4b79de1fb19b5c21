package section

import "strings"

// Validate checks that a section carries everything the ranking stages rely
// on. Returns true if usable. Malformed sections are skipped by callers with
// a recorded warning; they never abort a run. An empty type is defaulted to
// generic in place.
func Validate(s *Section) bool {
	if s == nil {
		return false
	}
	if strings.TrimSpace(s.DocumentID) == "" {
		return false
	}
	if strings.TrimSpace(s.Body) == "" {
		return false
	}
	if s.PageNumber < 1 {
		return false
	}
	if s.Ordinal < 0 {
		return false
	}
	if s.Type == "" {
		s.Type = TypeGeneric
	}
	return true
}
