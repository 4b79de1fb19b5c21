// Package segment detects headings in flat document text and groups
// lines into classified sections.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docrank/internal/section"
)

// Line is one line of extracted text together with the page it came from.
type Line struct {
	Text string
	Page int
}

// PreambleHeading titles the section holding content that appears before
// the first detected heading.
const PreambleHeading = "Preamble"

const (
	minHeadingChars = 3
	maxHeadingChars = 100
	maxHeadingWords = 12
)

var (
	// "1. Introduction", "2.3 Methods", "4 Results".
	numberedHeading = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+[A-Z]`)
	// "Chapter 3", "Section 12", "Part 2".
	chapterHeading = regexp.MustCompile(`(?i)^(chapter|section|part)\s+\d+`)
	// Common academic and business section names.
	keywordHeading = regexp.MustCompile(`(?i)^(abstract|introduction|methodology|results|discussion|conclusion|references|executive summary|background|analysis|findings|recommendations)\b`)
)

// IsHeading reports whether a line of text looks like a section heading.
func IsHeading(line string) bool {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < minHeadingChars {
		return false
	}

	if numberedHeading.MatchString(line) ||
		chapterHeading.MatchString(line) ||
		keywordHeading.MatchString(line) {
		return true
	}

	words := len(strings.Fields(line))
	if isAllCaps(line) && words <= maxHeadingWords {
		return true
	}

	first, _ := utf8.DecodeRuneInString(line)
	return utf8.RuneCountInString(line) < maxHeadingChars &&
		(unicode.IsUpper(first) || unicode.IsDigit(first)) &&
		!strings.HasSuffix(line, ".") &&
		words <= maxHeadingWords
}

// typeKeywords maps heading vocabulary to structural types. Entries are
// checked in order, so "Abstract Summary" classifies as an abstract.
var typeKeywords = []struct {
	typ      section.Type
	keywords []string
}{
	{section.TypeAbstract, []string{"abstract"}},
	{section.TypeSummary, []string{"summary", "overview"}},
	{section.TypeIntroduction, []string{"introduction", "background"}},
	{section.TypeMethodology, []string{"method", "approach", "materials"}},
	{section.TypeResults, []string{"result", "findings", "evaluation"}},
	{section.TypeConclusion, []string{"conclusion", "discussion", "future work", "recommendations"}},
}

// Classify maps heading text to a structural section type.
func Classify(heading string) section.Type {
	h := strings.ToLower(heading)
	for _, entry := range typeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(h, kw) {
				return entry.typ
			}
		}
	}
	return section.TypeGeneric
}

// SplitText groups lines into sections: each detected heading starts a new
// section and following lines accumulate into its body. Content before the
// first heading becomes a generic preamble section. Headings with no body
// are dropped. DocumentID and Ordinal are left for the caller to assign.
func SplitText(lines []Line) []section.Section {
	var (
		sections     []section.Section
		preamble     []string
		preamblePage int
		heading      string
		headingPage  int
		body         []string
		inSection    bool
	)

	flush := func() {
		if inSection && len(body) > 0 {
			sections = append(sections, section.Section{
				PageNumber: headingPage,
				Heading:    heading,
				Body:       strings.Join(body, "\n"),
				Type:       Classify(heading),
			})
		}
		body = nil
	}

	for _, ln := range lines {
		txt := strings.TrimSpace(ln.Text)
		if txt == "" {
			continue
		}

		if IsHeading(txt) {
			flush()
			heading = txt
			headingPage = clampPage(ln.Page)
			inSection = true
			continue
		}

		if inSection {
			body = append(body, txt)
		} else {
			if len(preamble) == 0 {
				preamblePage = clampPage(ln.Page)
			}
			preamble = append(preamble, txt)
		}
	}
	flush()

	if len(preamble) > 0 {
		pre := section.Section{
			PageNumber: preamblePage,
			Heading:    PreambleHeading,
			Body:       strings.Join(preamble, "\n"),
			Type:       section.TypeGeneric,
		}
		sections = append([]section.Section{pre}, sections...)
	}

	return sections
}

// LinesFromString splits s on newlines, tagging every line with page.
func LinesFromString(s string, page int) []Line {
	raw := strings.Split(s, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, Line{Text: l, Page: page})
	}
	return lines
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func clampPage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
