package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/parchment-labs/docask-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and saves it.

Supported keys:
  embedding.provider   ollama or openai
  embedding.model      embedding model name
  embedding.base_url   embedding API endpoint
  llm.provider         ollama or openai
  llm.model            chat model name
  llm.base_url         LLM API endpoint
  chunking.chunk_size  chunk size in characters
  chunking.overlap     overlap in characters
  query.top_k          chunks retrieved per question`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Set the API key for cloud providers",
	Long: `Prompts for an API key without echoing it, and stores it for both
the embedding and LLM providers. Environment variables DOCASK_API_KEY
and OPENAI_API_KEY take precedence over the stored key.`,
	Args: cobra.NoArgs,
	RunE: runConfigSetAPIKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetAPIKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Printf("embedding.provider   = %s\n", cfg.Embedding.Provider)
	cmd.Printf("embedding.model      = %s\n", cfg.Embedding.Model)
	cmd.Printf("embedding.base_url   = %s\n", valueOrDefault(cfg.Embedding.BaseURL))
	cmd.Printf("embedding.api_key    = %s\n", redact(cfg.Embedding.APIKey))
	cmd.Printf("llm.provider         = %s\n", cfg.LLM.Provider)
	cmd.Printf("llm.model            = %s\n", cfg.LLM.Model)
	cmd.Printf("llm.base_url         = %s\n", valueOrDefault(cfg.LLM.BaseURL))
	cmd.Printf("llm.api_key          = %s\n", redact(cfg.LLM.APIKey))
	cmd.Printf("store.data_dir       = %s\n", configStore.DataDir())
	cmd.Printf("chunking.chunk_size  = %d\n", cfg.Chunking.ChunkSize)
	cmd.Printf("chunking.overlap     = %d\n", cfg.Chunking.Overlap)
	cmd.Printf("query.top_k          = %d\n", cfg.Query.TopK)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	var apply func(*configfile.Config) error
	switch key {
	case "embedding.provider":
		apply = func(c *configfile.Config) error { c.Embedding.Provider = value; return nil }
	case "embedding.model":
		apply = func(c *configfile.Config) error { c.Embedding.Model = value; return nil }
	case "embedding.base_url":
		apply = func(c *configfile.Config) error { c.Embedding.BaseURL = value; return nil }
	case "llm.provider":
		apply = func(c *configfile.Config) error { c.LLM.Provider = value; return nil }
	case "llm.model":
		apply = func(c *configfile.Config) error { c.LLM.Model = value; return nil }
	case "llm.base_url":
		apply = func(c *configfile.Config) error { c.LLM.BaseURL = value; return nil }
	case "chunking.chunk_size":
		apply = setIntField(value, func(c *configfile.Config, n int) { c.Chunking.ChunkSize = n })
	case "chunking.overlap":
		apply = setIntField(value, func(c *configfile.Config, n int) { c.Chunking.Overlap = n })
	case "query.top_k":
		apply = setIntField(value, func(c *configfile.Config, n int) { c.Query.TopK = n })
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}

	var applyErr error
	configStore.Update(func(c *configfile.Config) {
		applyErr = apply(c)
	})
	if applyErr != nil {
		return applyErr
	}
	return configStore.Save()
}

func runConfigSetAPIKey(cmd *cobra.Command, _ []string) error {
	cmd.Print("API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}

	trimmed := strings.TrimSpace(string(key))
	if trimmed == "" {
		return fmt.Errorf("API key is empty")
	}

	configStore.Update(func(c *configfile.Config) {
		c.Embedding.APIKey = trimmed
		c.LLM.APIKey = trimmed
	})
	if err := configStore.Save(); err != nil {
		return err
	}

	cmd.Println("API key saved.")
	return nil
}

// setIntField parses value as a positive integer for the given field.
func setIntField(value string, set func(*configfile.Config, int)) func(*configfile.Config) error {
	return func(c *configfile.Config) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("expected a positive integer, got %q", value)
		}
		set(c, n)
		return nil
	}
}

// redact hides all but a hint of an API key.
func redact(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// valueOrDefault labels empty optional values.
func valueOrDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
