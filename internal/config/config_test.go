package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ChunkerParagraph, cfg.Chunker.Type)
	assert.Equal(t, 2000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 300, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 100, cfg.Chunker.MinChunkSize)
	assert.Equal(t, 1000, cfg.Index.MaxFeatures)
	assert.Equal(t, 8, cfg.Retrieval.MaxResults)
	assert.InDelta(t, 0.3, cfg.Retrieval.Threshold, 1e-12)
	assert.Equal(t, 8000, cfg.Context.MaxChars)
	assert.Equal(t, GeneratorNone, cfg.Generator.Type)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chunker:
  chunk_size: 500
  chunk_overlap: 50
retrieval:
  threshold: 0.1
generator:
  type: openai
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 100, cfg.Chunker.MinChunkSize)
	assert.InDelta(t, 0.1, cfg.Retrieval.Threshold, 1e-12)
	assert.Equal(t, 8, cfg.Retrieval.MaxResults)
	assert.Equal(t, "gpt-4o-mini", cfg.Generator.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.APIKeyEnv)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCINTEL_GENERATOR", "anthropic")
	t.Setenv("DOCINTEL_THRESHOLD", "0.45")
	t.Setenv("DOCINTEL_INDEX_PATH", "/tmp/x.gob")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GeneratorAnthropic, cfg.Generator.Type)
	assert.InDelta(t, 0.45, cfg.Retrieval.Threshold, 1e-12)
	assert.Equal(t, "/tmp/x.gob", cfg.Index.Path)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Retrieval.MaxResults = 3
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"overlap not below size", func(c *AppConfig) { c.Chunker.ChunkOverlap = c.Chunker.ChunkSize }},
		{"negative min", func(c *AppConfig) { c.Chunker.MinChunkSize = -1 }},
		{"unknown chunker", func(c *AppConfig) { c.Chunker.Type = "words" }},
		{"threshold above one", func(c *AppConfig) { c.Retrieval.Threshold = 1.5 }},
		{"negative threshold", func(c *AppConfig) { c.Retrieval.Threshold = -0.1 }},
		{"zero results", func(c *AppConfig) { c.Retrieval.MaxResults = 0 }},
		{"zero features", func(c *AppConfig) { c.Index.MaxFeatures = 0 }},
		{"unknown generator", func(c *AppConfig) { c.Generator.Type = "gpt" }},
		{"unknown log format", func(c *AppConfig) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
