package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/segment"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]section.Section, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docrank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	pages := splitPages(text)

	var lines []segment.Line
	for i, page := range pages {
		lines = append(lines, segment.LinesFromString(page, i+1)...)
	}

	secs := segment.SplitText(lines)
	if hasHeadings(secs) {
		return secs, nil
	}

	// No recognizable headings: one generic section per non-empty page.
	return pageSections(pages), nil
}

// hasHeadings reports whether segmentation found at least one real heading
// rather than only preamble content.
func hasHeadings(secs []section.Section) bool {
	for _, s := range secs {
		if s.Heading != segment.PreambleHeading {
			return true
		}
	}
	return false
}

func pageSections(pages []string) []section.Section {
	var secs []section.Section
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		secs = append(secs, section.Section{
			PageNumber: i + 1,
			Heading:    fmt.Sprintf("Page %d", i+1),
			Body:       page,
			Type:       section.TypeGeneric,
		})
	}
	return secs
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
