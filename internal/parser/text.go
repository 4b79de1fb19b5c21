package parser

import (
	"bufio"
	"io"

	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/segment"
)

// TextParser handles plain text files. Headings are detected
// heuristically; a file with none yields a single preamble section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]section.Section, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []segment.Line
	for scanner.Scan() {
		lines = append(lines, segment.Line{Text: scanner.Text(), Page: 1})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return segment.SplitText(lines), nil
}
