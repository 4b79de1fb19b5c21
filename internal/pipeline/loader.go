package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/section"
)

// Document is one raw input file for analysis.
type Document struct {
	Name string
	Data []byte
}

// Corpus is the validated, ordinal-assigned section list of a document
// set, plus the names of the documents that contributed and warnings for
// anything skipped.
type Corpus struct {
	Sections  []section.Section
	Documents []string
	Warnings  []string
}

// Loader parses document sets into analyzable corpora.
type Loader struct {
	log                *slog.Logger
	stats              *Stats
	maxConcurrentParse int
	pdfFallback        bool
}

func NewLoader(log *slog.Logger, stats *Stats, maxConcurrentParse int, pdfFallback bool) *Loader {
	if maxConcurrentParse <= 0 {
		maxConcurrentParse = 1
	}
	return &Loader{
		log:                log,
		stats:              stats,
		maxConcurrentParse: maxConcurrentParse,
		pdfFallback:        pdfFallback,
	}
}

// Load parses documents under bounded concurrency. Results are slotted by
// document index, so section ordinals and warning order never depend on
// goroutine scheduling. Files that fail to parse and sections that fail
// validation become warnings, not errors. onParsed, when non-nil, is
// called once per successfully parsed document.
func (l *Loader) Load(ctx context.Context, docs []Document, onParsed func()) *Corpus {
	type parseResult struct {
		secs []section.Section
		err  error
	}
	results := make([]parseResult, len(docs))

	sem := make(chan struct{}, l.maxConcurrentParse)
	var wg sync.WaitGroup
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			results[i] = parseResult{err: err}
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			defer func() { <-sem }()
			start := time.Now()
			secs, err := l.parseOne(doc)
			l.stats.Record(PhaseParse, time.Since(start))
			results[i] = parseResult{secs: secs, err: err}
			if err == nil && onParsed != nil {
				onParsed()
			}
		}(i, doc)
	}
	wg.Wait()

	corpus := &Corpus{}
	ordinal := 0
	for i, doc := range docs {
		r := results[i]
		if r.err != nil {
			l.log.Warn("document skipped", "file", doc.Name, "error", r.err)
			corpus.Warnings = append(corpus.Warnings, fmt.Sprintf("%s: %s", doc.Name, r.err))
			continue
		}
		corpus.Documents = append(corpus.Documents, doc.Name)
		for _, sec := range r.secs {
			sec.DocumentID = doc.Name
			if !section.Validate(&sec) {
				l.log.Warn("invalid section skipped", "file", doc.Name, "page", sec.PageNumber, "heading", sec.Heading)
				corpus.Warnings = append(corpus.Warnings, fmt.Sprintf("%s: skipped invalid section %q", doc.Name, sec.Heading))
				continue
			}
			sec.Ordinal = ordinal
			ordinal++
			corpus.Sections = append(corpus.Sections, sec)
		}
	}
	return corpus
}

// LoadDirectory reads every supported regular file in dir, in lexical
// filename order, and parses the set. An unreadable directory is an
// error; unreadable files are warnings.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents directory: %w", err)
	}

	var docs []Document
	var warnings []string
	for _, entry := range entries {
		if entry.IsDir() || !parser.IsSupportedExtension(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.log.Warn("unreadable document skipped", "file", entry.Name(), "error", err)
			warnings = append(warnings, fmt.Sprintf("%s: %s", entry.Name(), err))
			continue
		}
		docs = append(docs, Document{Name: entry.Name(), Data: data})
	}

	corpus := l.Load(ctx, docs, nil)
	corpus.Warnings = append(warnings, corpus.Warnings...)
	return corpus, nil
}

func (l *Loader) parseOne(doc Document) ([]section.Section, error) {
	p, err := parser.ForFile(doc.Name)
	if err != nil {
		return nil, err
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = l.pdfFallback
	}
	return p.Parse(bytes.NewReader(doc.Data), doc.Name)
}
