package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Chunker types.
const (
	ChunkerParagraph = "paragraph"
	ChunkerSentence  = "sentence"
)

// Generator types.
const (
	GeneratorNone      = "none"
	GeneratorAnthropic = "anthropic"
	GeneratorOpenAI    = "openai"
)

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	ChunkSize         int    `yaml:"chunk_size"`
	ChunkOverlap      int    `yaml:"chunk_overlap"`
	MinChunkSize      int    `yaml:"min_chunk_size"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// IndexConfig configures the TF-IDF index and where it is persisted.
type IndexConfig struct {
	MaxFeatures int    `yaml:"max_features"`
	Path        string `yaml:"path"`
}

// RetrievalConfig holds search defaults.
type RetrievalConfig struct {
	MaxResults int     `yaml:"max_results"`
	Threshold  float64 `yaml:"threshold"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type        string `yaml:"type"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxTokens   int    `yaml:"max_tokens"`
	MaxRetries  int    `yaml:"max_retries"`
}

// Timeout returns the per-call generation timeout.
func (g GeneratorConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// ContextConfig bounds the prompt context.
type ContextConfig struct {
	MaxChars int `yaml:"max_chars"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Generator GeneratorConfig `yaml:"generator"`
	Context   ContextConfig   `yaml:"context"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			applyConfigDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	// Keys absent from the file keep their defaults.
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./docintel.yaml first, then ~/.config/docintel/config.yaml.
// If neither exists, it writes defaults to ~/.config/docintel/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docintel.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects settings the retrieval core cannot honour.
func (c *AppConfig) Validate() error {
	var errs []error
	switch c.Chunker.Type {
	case ChunkerParagraph, ChunkerSentence:
	default:
		errs = append(errs, fmt.Errorf("chunker.type: unknown type %q", c.Chunker.Type))
	}
	if c.Chunker.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunker.chunk_size: must be positive"))
	}
	if c.Chunker.ChunkOverlap < 0 || c.Chunker.MinChunkSize < 0 {
		errs = append(errs, errors.New("chunker: overlap and min_chunk_size must not be negative"))
	}
	if c.Chunker.ChunkSize > 0 && c.Chunker.ChunkOverlap >= c.Chunker.ChunkSize {
		errs = append(errs, errors.New("chunker.chunk_overlap: must be smaller than chunk_size"))
	}
	if c.Chunker.SentencesPerChunk < 0 || c.Chunker.OverlapSentences < 0 {
		errs = append(errs, errors.New("chunker: sentence counts must not be negative"))
	}
	if c.Index.MaxFeatures <= 0 {
		errs = append(errs, errors.New("index.max_features: must be positive"))
	}
	if c.Retrieval.MaxResults <= 0 {
		errs = append(errs, errors.New("retrieval.max_results: must be positive"))
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		errs = append(errs, errors.New("retrieval.threshold: must be within [0, 1]"))
	}
	switch c.Generator.Type {
	case GeneratorNone, GeneratorAnthropic, GeneratorOpenAI:
	default:
		errs = append(errs, fmt.Errorf("generator.type: unknown type %q", c.Generator.Type))
	}
	if c.Generator.MaxRetries < 0 {
		errs = append(errs, errors.New("generator.max_retries: must not be negative"))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docintel", "config.yaml"), nil
}

// DefaultIndexPath is where the index blob lives unless configured.
func DefaultIndexPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".docintel", "index.gob")
	}
	return filepath.Join(home, ".cache", "docintel", "index.gob")
}

// Default returns the built-in configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultConfig() *AppConfig {
	return &AppConfig{
		Chunker: ChunkerConfig{
			Type:              ChunkerParagraph,
			ChunkSize:         2000,
			ChunkOverlap:      300,
			MinChunkSize:      100,
			SentencesPerChunk: 5,
			OverlapSentences:  1,
		},
		Index:     IndexConfig{MaxFeatures: 1000, Path: DefaultIndexPath()},
		Retrieval: RetrievalConfig{MaxResults: 8, Threshold: 0.3},
		Generator: GeneratorConfig{
			Type:        GeneratorNone,
			TimeoutSecs: 60,
			MaxTokens:   3000,
			MaxRetries:  3,
		},
		Context: ContextConfig{MaxChars: 8000},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = d.Chunker.Type
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = d.Chunker.SentencesPerChunk
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = d.Index.Path
	}
	if cfg.Context.MaxChars == 0 {
		cfg.Context.MaxChars = d.Context.MaxChars
	}

	g := &cfg.Generator
	if g.Type == "" {
		g.Type = GeneratorNone
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = d.Generator.TimeoutSecs
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = d.Generator.MaxTokens
	}
	switch g.Type {
	case GeneratorAnthropic:
		if g.Model == "" {
			g.Model = "claude-sonnet-4-20250514"
		}
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
	case GeneratorOpenAI:
		if g.Model == "" {
			g.Model = "gpt-4o-mini"
		}
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
}

// applyEnvOverrides lets DOCINTEL_* variables override file settings.
func applyEnvOverrides(cfg *AppConfig) {
	cfg.Index.Path = envOr("DOCINTEL_INDEX_PATH", cfg.Index.Path)
	cfg.Generator.Type = envOr("DOCINTEL_GENERATOR", cfg.Generator.Type)
	cfg.Generator.Model = envOr("DOCINTEL_MODEL", cfg.Generator.Model)
	cfg.Generator.BaseURL = envOr("DOCINTEL_BASE_URL", cfg.Generator.BaseURL)
	cfg.Log.Level = envOr("DOCINTEL_LOG_LEVEL", cfg.Log.Level)
	cfg.Retrieval.Threshold = envFloat("DOCINTEL_THRESHOLD", cfg.Retrieval.Threshold)
	cfg.Retrieval.MaxResults = envInt("DOCINTEL_MAX_RESULTS", cfg.Retrieval.MaxResults)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
