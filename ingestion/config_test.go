package ingestion

import (
	"testing"

	"github.com/poiesic/vecseed/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 2, cfg.UpsertBatchSize)
	assert.Equal(t, 8192, cfg.MaxContentLength)
	assert.Equal(t, core.IDStrategyRandom, cfg.IDStrategy)
	assert.Zero(t, cfg.MaxRetries)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"zero upsert batch size", func(c *Config) { c.UpsertBatchSize = 0 }},
		{"zero max content length", func(c *Config) { c.MaxContentLength = 0 }},
		{"chunk size at content bound", func(c *Config) { c.ChunkSize = c.MaxContentLength }},
		{"chunk size above content bound", func(c *Config) { c.MaxContentLength = 500 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -1 }},
		{"negative rate", func(c *Config) { c.BatchesPerSecond = -1 }},
		{"unknown id strategy", func(c *Config) { c.IDStrategy = "sequential" }},
		{"overlap exceeds size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
