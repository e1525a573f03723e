package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docask-cli/internal/adapters/driven/ai"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/services"
)

var (
	askTopK    int
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Embeds the question, retrieves the closest chunks from the local
vector store, and generates an answer grounded in them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", true, "list the retrieved source chunks after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	count, err := p.store.Count(context.Background())
	if err != nil {
		return fmt.Errorf("checking index: %w", err)
	}
	if count == 0 {
		return errors.New("the index is empty; run 'docask ingest' first")
	}

	llm, err := ai.CreateAndValidateLLMService(configStore.LLMSettings())
	if err != nil {
		return err
	}
	defer llm.Close()

	svc, err := services.NewAnswerService(p.embedder, p.store, llm,
		services.WithDefaultTopK(configStore.Config().Query.TopK))
	if err != nil {
		return err
	}

	answer, err := svc.Ask(context.Background(), question, askTopK)
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) {
			return fmt.Errorf("%w (is the model available?)", err)
		}
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if askSources {
		printSources(cmd, answer.Sources)
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SearchResult) {
	if len(sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		name, _ := src.Metadata["filename"].(string)
		if name == "" {
			name = "unknown"
		}
		cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, name, src.Distance)
	}
}
