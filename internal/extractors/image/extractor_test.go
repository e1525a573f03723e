package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ []byte, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func newExtractor(runner *mockRunner) *Extractor {
	return New(chunker.New(), runner)
}

// encodePNG builds a small in-memory PNG for tests.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func grayPNG(t *testing.T) []byte {
	t.Helper()
	return encodePNG(t, image.NewGray(image.Rect(0, 0, 4, 4)))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []domain.Kind{domain.KindImage}, newExtractor(&mockRunner{}).Kinds())
}

func TestExtract_NilDocument(t *testing.T) {
	result, err := newExtractor(&mockRunner{}).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_OCRText(t *testing.T) {
	runner := &mockRunner{output: []byte("recognised line one\nrecognised line two\n")}
	raw := &domain.RawDocument{Name: "scan.png", Kind: domain.KindImage, Content: grayPNG(t)}

	result, err := newExtractor(runner).Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "recognised line one\nrecognised line two", result.Text)
	assert.Equal(t, 1, result.TotalChunks)
	assert.Equal(t, "png", result.Metadata["format"])
	assert.Equal(t, "gray", result.Metadata["mode"])
	assert.Equal(t, 4, result.Metadata["width"])
}

// OCR finding no text on a blank image is valid: empty text, zero chunks,
// no error.
func TestExtract_BlankImage(t *testing.T) {
	runner := &mockRunner{output: []byte("\n\f\n")}
	raw := &domain.RawDocument{Name: "blank.png", Kind: domain.KindImage, Content: grayPNG(t)}

	result, err := newExtractor(runner).Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.Empty(t, result.Chunks)
	assert.Zero(t, result.TotalChunks)
}

func TestExtract_CorruptImage(t *testing.T) {
	raw := &domain.RawDocument{Name: "bad.png", Kind: domain.KindImage, Content: []byte("not an image")}

	result, err := newExtractor(&mockRunner{}).Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Nil(t, result)
}

func TestExtract_OCRFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("tesseract crashed")}
	raw := &domain.RawDocument{Name: "scan.png", Kind: domain.KindImage, Content: grayPNG(t)}

	result, err := newExtractor(runner).Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "tesseract failed")
	assert.Nil(t, result)
}

func TestColorMode(t *testing.T) {
	tests := []struct {
		name  string
		model color.Model
		want  string
	}{
		{"gray", color.GrayModel, "gray"},
		{"nrgba", color.NRGBAModel, "nrgba"},
		{"ycbcr", color.YCbCrModel, "ycbcr"},
		{"palette", color.Palette{color.Black, color.White}, "palette"},
		{"unknown", color.Alpha16Model, "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, colorMode(tc.model))
		})
	}
}

func TestErrOCRToolNotFound(t *testing.T) {
	assert.Contains(t, ErrOCRToolNotFound.Error(), "tesseract")
	assert.Contains(t, InstallInstructions(), "tesseract")
}
