package parser

import (
	"errors"
	"fmt"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "*parser.TextParser"},
		{"readme.md", "*parser.MarkdownParser"},
		{"notes.markdown", "*parser.MarkdownParser"},
		{"data.csv", "*parser.CSVParser"},
		{"page.html", "*parser.HTMLParser"},
		{"page.htm", "*parser.HTMLParser"},
		{"paper.PDF", "*parser.PDFParser"},
		{"memo.docx", "*parser.DOCXParser"},
	}

	for _, c := range cases {
		p, err := ForFile(c.filename)
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", c.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != c.want {
			t.Errorf("ForFile(%q) = %s, want %s", c.filename, got, c.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("archive.zip")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("doc.pdf") {
		t.Error("expected .pdf to be supported")
	}
	if !IsSupportedExtension("DOC.HTML") {
		t.Error("expected extension check to be case-insensitive")
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected .png to be unsupported")
	}
}
