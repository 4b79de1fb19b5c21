package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/segment"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]section.Section, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var (
		sections    []section.Section
		heading     string
		inSection   bool
		currentText bytes.Buffer
	)

	flush := func() {
		t := strings.TrimSpace(currentText.String())
		currentText.Reset()
		if t == "" {
			return
		}
		if !inSection {
			sections = append(sections, section.Section{
				PageNumber: 1,
				Heading:    segment.PreambleHeading,
				Body:       t,
				Type:       section.TypeGeneric,
			})
			return
		}
		sections = append(sections, section.Section{
			PageNumber: 1,
			Heading:    heading,
			Body:       t,
			Type:       segment.Classify(heading),
		})
	}

	// Walk top-level blocks: every heading starts a new section, any other
	// block accumulates into the current body.
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			heading = string(h.Text(src))
			inSection = true
			continue
		}
		t := extractText(n, src)
		if t != "" {
			if currentText.Len() > 0 {
				currentText.WriteString("\n\n")
			}
			currentText.WriteString(t)
		}
	}
	flush()

	return sections, nil
}

// extractText gets the text content of a goldmark AST node. Inline
// children carry the text for paragraphs; code blocks keep it in their
// raw lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.HasChildren() {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			// Recurse for nested blocks and non-text inlines.
			if s := extractText(c, src); s != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(s)
			}
		}
	} else if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
