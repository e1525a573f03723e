// Package image extracts text from raster images with the tesseract OCR
// tool.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os/exec"
	"strings"

	// Register decoders for the image kinds detection recognises.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrOCRToolNotFound indicates the tesseract binary is missing from PATH.
var ErrOCRToolNotFound = errors.New("tesseract not found in PATH")

// Extractor runs OCR over decoded images. An OCR pass that finds no text
// is a valid empty result, not an error.
type Extractor struct {
	splitter *chunker.Splitter
	runner   driven.CommandRunner
}

// New creates an image extractor that shells out to tesseract.
func New(splitter *chunker.Splitter, runner driven.CommandRunner) *Extractor {
	return &Extractor{splitter: splitter, runner: runner}
}

// Kinds returns the document kinds this extractor handles.
func (e *Extractor) Kinds() []domain.Kind {
	return []domain.Kind{domain.KindImage}
}

// CheckAvailable reports whether tesseract can be invoked.
func CheckAvailable() error {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return ErrOCRToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing tesseract.
func InstallInstructions() string {
	return `tesseract is required for image ingestion.

  macOS:         brew install tesseract
  Debian/Ubuntu: sudo apt install tesseract-ocr
  Fedora:        sudo dnf install tesseract`
}

// Extract decodes the image header for format metadata, then OCRs the
// payload and chunks the recognised text.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %w", domain.ErrExtraction, err)
	}

	out, err := e.runner.Run(ctx, raw.Content, "tesseract", "stdin", "stdout")
	if err != nil {
		return nil, fmt.Errorf("%w: tesseract failed: %w", domain.ErrExtraction, err)
	}

	text := strings.TrimSpace(string(out))
	chunks := e.splitter.Split(text)

	return &domain.ExtractionResult{
		Text:        text,
		Chunks:      chunks,
		TotalChunks: len(chunks),
		Metadata: map[string]any{
			"format": format,
			"mode":   colorMode(cfg.ColorModel),
			"width":  cfg.Width,
			"height": cfg.Height,
		},
	}, nil
}

// colorMode names the pixel layout of a decoded image, mirroring the
// short mode strings imaging tools report.
func colorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "palette"
	}

	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.NRGBAModel:
		return "nrgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.CMYKModel:
		return "cmyk"
	case color.YCbCrModel:
		return "ycbcr"
	default:
		return "unknown"
	}
}
