package domain

// Kind is the closed set of document categories the pipeline recognises.
// Detection is content-based; unrecognised signatures fall back to KindText.
type Kind int

const (
	// KindUnknown is the zero value and never produced by detection.
	KindUnknown Kind = iota

	// KindPDF is a PDF document.
	KindPDF

	// KindImage is a raster image processed through OCR.
	KindImage

	// KindText is plain UTF-8 text, and the fallback for unrecognised content.
	KindText

	// KindSpreadsheet is an Excel-type workbook. It is detected but has no
	// registered extractor; processing it fails with ErrUnsupportedType.
	KindSpreadsheet
)

// String returns the lowercase name used in metadata and CLI output.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}
