// Package detector classifies document payloads into a Kind by content
// signature. Uploaded filenames are untrusted, so classification never
// looks at the extension; a PDF renamed to .txt still classifies as PDF.
package detector

import (
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// kindMapping maps known MIME signatures to document kinds, checked in
// order. Anything unmatched falls back to KindText to keep the pipeline
// live at the cost of potential mis-processing.
var kindMapping = []struct {
	mime string
	kind domain.Kind
}{
	{"application/pdf", domain.KindPDF},
	{"image/png", domain.KindImage},
	{"image/jpeg", domain.KindImage},
	{"image/gif", domain.KindImage},
	{"image/tiff", domain.KindImage},
	{"image/webp", domain.KindImage},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", domain.KindSpreadsheet},
	{"application/vnd.ms-excel", domain.KindSpreadsheet},
}

// Detect classifies a payload by its content signature.
func Detect(payload []byte) domain.Kind {
	m := mimetype.Detect(payload)
	for _, entry := range kindMapping {
		if m.Is(entry.mime) {
			logger.Debug("detected %s as %s", entry.mime, entry.kind)
			return entry.kind
		}
	}
	logger.Debug("unrecognised signature %s, falling back to text", m.String())
	return domain.KindText
}

// DetectFile classifies the file at path. It fails with domain.ErrDetection
// only when the content cannot be read at all.
func DetectFile(path string) (domain.Kind, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return domain.KindUnknown, fmt.Errorf("%w: reading %s: %w", domain.ErrDetection, path, err)
	}
	return Detect(payload), nil
}
