package pdf

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// mockRunner is a test double for CommandRunner that answers per-mode.
type mockRunner struct {
	textOut   []byte
	textErr   error
	layoutOut []byte
	layoutErr error
}

func (m *mockRunner) Run(_ context.Context, _ []byte, _ string, args ...string) ([]byte, error) {
	for _, a := range args {
		if a == "-layout" {
			return m.layoutOut, m.layoutErr
		}
	}
	return m.textOut, m.textErr
}

func newExtractor(runner *mockRunner) *Extractor {
	return New(chunker.New(), runner)
}

func rawPDF() *domain.RawDocument {
	return &domain.RawDocument{
		Name:    "report.pdf",
		Kind:    domain.KindPDF,
		Content: []byte("%PDF-1.4 fake pdf content"),
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []domain.Kind{domain.KindPDF}, newExtractor(&mockRunner{}).Kinds())
}

func TestExtract_NilDocument(t *testing.T) {
	result, err := newExtractor(&mockRunner{}).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_PagesJoinedWithNewlines(t *testing.T) {
	runner := &mockRunner{
		textOut:   []byte("page one text\n\fpage two text\n\fpage three text\n\f"),
		layoutErr: errors.New("no layout"),
	}

	result, err := newExtractor(runner).Extract(context.Background(), rawPDF())
	require.NoError(t, err)

	assert.Equal(t, "page one text\npage two text\npage three text", result.Text)
	assert.Equal(t, 3, result.Metadata["page_count"])
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, 1, result.TotalChunks)
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{textErr: errors.New("pdftotext crashed")}

	result, err := newExtractor(runner).Extract(context.Background(), rawPDF())
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, result)
}

// Table recovery failure is logged and suppressed; text extraction
// succeeds with an empty table list.
func TestExtract_TableFailureIsSuppressed(t *testing.T) {
	logger.SetOutput(&strings.Builder{})
	defer logger.SetOutput(os.Stderr)

	runner := &mockRunner{
		textOut:   []byte("some text\n\f"),
		layoutErr: errors.New("layout pass crashed"),
	}

	result, err := newExtractor(runner).Extract(context.Background(), rawPDF())
	require.NoError(t, err)
	assert.Empty(t, result.Tables)
	assert.Equal(t, "some text", result.Text)
}

func TestExtract_TablesParsed(t *testing.T) {
	layout := strings.Join([]string{
		"Quarterly Report",
		"",
		"Region      Revenue     Units",
		"North       1200        34",
		"South       900         21",
		"",
		"closing remarks",
	}, "\n")

	runner := &mockRunner{
		textOut:   []byte("Quarterly Report\n\f"),
		layoutOut: []byte(layout),
	}

	result, err := newExtractor(runner).Extract(context.Background(), rawPDF())
	require.NoError(t, err)
	require.Len(t, result.Tables, 1)

	table := result.Tables[0]
	require.Len(t, table, 2)
	assert.Equal(t, "1200", table[0]["Revenue"])
	assert.Equal(t, "North", table[0]["Region"])
	assert.Equal(t, "21", table[1]["Units"])
}

func TestParseTables_IgnoresProse(t *testing.T) {
	layout := "a single column of prose\nwith ordinary spacing between words\n"
	assert.Empty(t, parseTables(layout))
}

func TestParseTables_RequiresTwoLines(t *testing.T) {
	layout := "Header A    Header B\nordinary prose follows here\n"
	assert.Empty(t, parseTables(layout))
}

func TestSplitPages_Empty(t *testing.T) {
	assert.Nil(t, splitPages(""))
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
	assert.Contains(t, InstallInstructions(), "poppler")
}
