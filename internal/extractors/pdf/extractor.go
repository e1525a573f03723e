// Package pdf extracts text and tables from PDF documents using the
// poppler pdftotext tool.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is missing from PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pdftotext emits a form feed after each page.
const pageSeparator = "\f"

// columnGap matches the run of spaces pdftotext -layout leaves between
// table columns.
var columnGap = regexp.MustCompile(`\s{2,}`)

// Extractor extracts PDF text per page plus best-effort tables.
type Extractor struct {
	splitter *chunker.Splitter
	runner   driven.CommandRunner
}

// New creates a PDF extractor that shells out to pdftotext.
func New(splitter *chunker.Splitter, runner driven.CommandRunner) *Extractor {
	return &Extractor{splitter: splitter, runner: runner}
}

// Kinds returns the document kinds this extractor handles.
func (e *Extractor) Kinds() []domain.Kind {
	return []domain.Kind{domain.KindPDF}
}

// CheckAvailable reports whether pdftotext can be invoked.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF ingestion.

  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Extract runs pdftotext over the payload, joins the per-page text with
// newlines, and chunks it. A second -layout pass recovers tables;
// that pass is best-effort and its failure is logged and suppressed.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	out, err := e.runner.Run(ctx, raw.Content, "pdftotext", "-", "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed: %w", domain.ErrExtraction, err)
	}

	pages := splitPages(string(out))
	text := joinPages(pages)
	chunks := e.splitter.Split(text)

	tables := e.extractTables(ctx, raw)

	return &domain.ExtractionResult{
		Text:        text,
		Chunks:      chunks,
		TotalChunks: len(chunks),
		Tables:      tables,
		Metadata: map[string]any{
			"page_count": len(pages),
		},
	}, nil
}

// extractTables runs pdftotext in layout mode and parses aligned column
// blocks into tables. Failures here never abort text extraction.
func (e *Extractor) extractTables(ctx context.Context, raw *domain.RawDocument) []domain.Table {
	out, err := e.runner.Run(ctx, raw.Content, "pdftotext", "-layout", "-", "-")
	if err != nil {
		logger.Warn("table extraction for %q failed: %v", raw.Name, err)
		return nil
	}
	return parseTables(string(out))
}

// splitPages breaks pdftotext output on form feeds, dropping the empty
// trailing element the final form feed produces.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, pageSeparator)
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

func joinPages(pages []string) string {
	trimmed := make([]string, len(pages))
	for i, p := range pages {
		trimmed[i] = strings.TrimRight(p, "\n")
	}
	return strings.Join(trimmed, "\n")
}

// parseTables finds blocks of two or more consecutive lines that share the
// multi-column shape layout mode gives tables. The first line of a block
// is taken as the header row; remaining lines become header-to-cell maps.
func parseTables(layout string) []domain.Table {
	var tables []domain.Table
	var block [][]string

	flush := func() {
		if len(block) >= 2 {
			tables = append(tables, buildTable(block))
		}
		block = nil
	}

	for _, line := range strings.Split(layout, "\n") {
		cells := splitColumns(line)
		if len(cells) >= 2 {
			block = append(block, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(strings.Trim(line, pageSeparator))
	if line == "" {
		return nil
	}
	cells := columnGap.Split(line, -1)
	if len(cells) < 2 {
		return nil
	}
	return cells
}

func buildTable(block [][]string) domain.Table {
	headers := block[0]
	table := make(domain.Table, 0, len(block)-1)

	for _, cells := range block[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		table = append(table, row)
	}

	return table
}
