// Package file provides TOML-backed configuration storage.
// Configuration lives in a single config.toml inside the docask
// config directory, with environment variables taking precedence for
// secrets so API keys never have to touch disk.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// Default configuration values.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
	DefaultTopK      = 5
)

// Environment variables that override the on-disk API key.
const (
	EnvAPIKey       = "DOCASK_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// EmbeddingConfig holds the [embedding] section.
type EmbeddingConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// LLMConfig holds the [llm] section.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// StoreConfig holds the [store] section.
type StoreConfig struct {
	// DataDir is where the vector database lives.
	// Empty means the default under the config directory.
	DataDir string `toml:"data_dir"`
}

// ChunkingConfig holds the [chunking] section.
type ChunkingConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// QueryConfig holds the [query] section.
type QueryConfig struct {
	TopK int `toml:"top_k"`
}

// Config is the full application configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Store     StoreConfig     `toml:"store"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Query     QueryConfig     `toml:"query"`
}

// Default returns a configuration with sensible defaults.
// Local Ollama works out of the box; OpenAI needs an API key.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider: domain.AIProviderOllama.String(),
			Model:    domain.DefaultEmbeddingModels()[domain.AIProviderOllama],
		},
		LLM: LLMConfig{
			Provider: domain.AIProviderOllama.String(),
			Model:    domain.DefaultLLMModels()[domain.AIProviderOllama],
		},
		Chunking: ChunkingConfig{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultOverlap,
		},
		Query: QueryConfig{
			TopK: DefaultTopK,
		},
	}
}

// ConfigStore loads and persists application configuration.
type ConfigStore struct {
	mu        sync.RWMutex
	configDir string
	filePath  string
	config    Config
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.docask.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docask")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		configDir: configDir,
		filePath:  filepath.Join(configDir, "config.toml"),
		config:    Default(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load reads configuration from the TOML file, applies defaults for
// missing values, and overlays environment variables for API keys.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet, defaults apply
	case err != nil:
		return fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	s.config = cfg
	return nil
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Restricted permissions, the file may hold an API key
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update mutates the configuration under lock.
func (s *ConfigStore) Update(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.config)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// ConfigDir returns the configuration directory.
func (s *ConfigStore) ConfigDir() string {
	return s.configDir
}

// DataDir returns the vector store data directory, defaulting to a
// "data" subdirectory of the config directory.
func (s *ConfigStore) DataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config.Store.DataDir != "" {
		return s.config.Store.DataDir
	}
	return filepath.Join(s.configDir, "data")
}

// EmbeddingSettings converts the embedding section to domain settings.
func (s *ConfigStore) EmbeddingSettings() domain.EmbeddingSettings {
	cfg := s.Config()
	return domain.EmbeddingSettings{
		Provider: domain.AIProvider(cfg.Embedding.Provider),
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	}
}

// LLMSettings converts the llm section to domain settings.
func (s *ConfigStore) LLMSettings() domain.LLMSettings {
	cfg := s.Config()
	return domain.LLMSettings{
		Provider: domain.AIProvider(cfg.LLM.Provider),
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
	}
}

// applyDefaults fills zero values with defaults.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = def.Embedding.Provider
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = domain.DefaultEmbeddingModels()[domain.AIProvider(cfg.Embedding.Provider)]
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = domain.DefaultLLMModels()[domain.AIProvider(cfg.LLM.Provider)]
	}
	if cfg.Chunking.ChunkSize <= 0 {
		cfg.Chunking.ChunkSize = def.Chunking.ChunkSize
	}
	if cfg.Chunking.Overlap <= 0 {
		cfg.Chunking.Overlap = def.Chunking.Overlap
	}
	if cfg.Query.TopK <= 0 {
		cfg.Query.TopK = def.Query.TopK
	}
}

// applyEnvOverrides lets environment variables win over the file for
// API keys. DOCASK_API_KEY takes precedence over OPENAI_API_KEY.
func applyEnvOverrides(cfg *Config) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		key = os.Getenv(EnvOpenAIAPIKey)
	}
	if key == "" {
		return
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = key
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
}
