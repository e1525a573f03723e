package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/extractors/image"
	"github.com/parchment-labs/docask-cli/internal/extractors/pdf"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the local index",
	Long: `Detects each file's type by content, extracts its text (PDFs via
pdftotext, images via tesseract OCR), chunks it, and stores embeddings
in the local vector store.

One bad file does not stop the batch; failures are reported per file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	warnMissingTools(cmd)

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx := context.Background()
	failures := 0

	for _, path := range args {
		payload, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("  ✗ %s: %v\n", path, err)
			failures++
			continue
		}

		report, err := p.ingest.Ingest(ctx, filepath.Base(path), payload)
		if err != nil {
			cmd.Printf("  ✗ %s: %s\n", path, ingestErrorMessage(err))
			failures++
			continue
		}

		line := fmt.Sprintf("  ✓ %s: %s, %d chunks", path, report.KindName, report.Chunks)
		if report.Pages > 0 {
			line += fmt.Sprintf(", %d pages", report.Pages)
		}
		if report.Tables > 0 {
			line += fmt.Sprintf(", %d tables", report.Tables)
		}
		if report.Chunks == 0 {
			line += " (no text found, nothing stored)"
		}
		cmd.Println(line)
	}

	if failures == len(args) {
		return fmt.Errorf("all %d files failed", failures)
	}
	if failures > 0 {
		cmd.Printf("\n%d of %d files failed\n", failures, len(args))
	}
	return nil
}

// ingestErrorMessage turns pipeline errors into actionable one-liners.
func ingestErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		return fmt.Sprintf("unsupported file type (%v)", err)
	case errors.Is(err, pdf.ErrPDFToolNotFound):
		return fmt.Sprintf("%v\n    %s", err, pdf.InstallInstructions())
	case errors.Is(err, image.ErrOCRToolNotFound):
		return fmt.Sprintf("%v\n    %s", err, image.InstallInstructions())
	default:
		return err.Error()
	}
}

// warnMissingTools prints a heads-up when external extraction tools are
// absent. Ingestion of other kinds still works.
func warnMissingTools(cmd *cobra.Command) {
	if err := pdf.CheckAvailable(); err != nil {
		cmd.PrintErrf("Warning: %v (%s)\n", err, pdf.InstallInstructions())
	}
	if err := image.CheckAvailable(); err != nil {
		cmd.PrintErrf("Warning: %v (%s)\n", err, image.InstallInstructions())
	}
}
