// Package cli implements the docask command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docask-cli/internal/adapters/driven/ai"
	configfile "github.com/parchment-labs/docask-cli/internal/adapters/driven/config/file"
	"github.com/parchment-labs/docask-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
	"github.com/parchment-labs/docask-cli/internal/core/services"
	"github.com/parchment-labs/docask-cli/internal/extractors"
	"github.com/parchment-labs/docask-cli/internal/extractors/image"
	"github.com/parchment-labs/docask-cli/internal/extractors/pdf"
	"github.com/parchment-labs/docask-cli/internal/extractors/plaintext"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Shared state wired up per invocation.
var (
	configStore *configfile.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "docask",
	Short: "Ask questions about your documents",
	Long: `docask ingests PDFs, images, and plain text into a local vector
store and answers questions about them using a language model.

Local Ollama works out of the box; OpenAI needs an API key
(run 'docask config set-api-key').`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		configStore = store
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docask)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// pipeline holds the fully wired write/read path plus its resources.
type pipeline struct {
	ingest   *services.IngestService
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// close releases the pipeline's resources.
func (p *pipeline) close() {
	if p.embedder != nil {
		p.embedder.Close()
	}
	if p.store != nil {
		p.store.Close()
	}
}

// buildPipeline wires detector, extractors, chunker, embedding service,
// and vector store from the current configuration.
func buildPipeline() (*pipeline, error) {
	cfg := configStore.Config()

	embedder, err := ai.CreateAndValidateEmbeddingService(configStore.EmbeddingSettings())
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(configStore.DataDir())
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	runner := extractors.NewExecRunner()

	registry := extractors.NewRegistry(
		plaintext.New(splitter),
		pdf.New(splitter, runner),
		image.New(splitter, runner),
	)

	return &pipeline{
		ingest:   services.NewIngestService(registry, embedder, store),
		embedder: embedder,
		store:    store,
	}, nil
}
