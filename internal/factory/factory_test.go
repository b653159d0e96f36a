package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/llm-mail-triage/internal/adapters/ollama"
	"github.com/mikey/llm-mail-triage/internal/adapters/openai"
	"github.com/mikey/llm-mail-triage/internal/adapters/store"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestLLMFactory_CreateTextGenerator(t *testing.T) {
	cfg := newTestConfig()
	f := NewLLMFactory(cfg, zap.NewNop())

	generator, err := f.CreateTextGenerator(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaClient{}, generator)

	cfg.Set("llm.provider", "openai")
	generator, err = f.CreateTextGenerator(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIClient{}, generator)

	cfg.Set("llm.provider", "carrier-pigeon")
	_, err = f.CreateTextGenerator(context.Background())
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestLLMFactory_RequestTimeout(t *testing.T) {
	cfg := newTestConfig()
	f := NewLLMFactory(cfg, zap.NewNop())

	assert.Zero(t, f.RequestTimeout())

	cfg.Set("llm.request_timeout", "90s")
	assert.Equal(t, 90*time.Second, f.RequestTimeout())
}

func TestStoreFactory_CreateBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := newTestConfig()
	cfg.Set("store.file_dir", filepath.Join(dir, "files"))
	cfg.Set("store.sqlite_path", filepath.Join(dir, "db", "triage.db"))
	f := NewStoreFactory(cfg, zap.NewNop())

	tests := []struct {
		storeType string
		want      store.Backend
	}{
		{"file", &store.FileStore{}},
		{"memory", &store.MemoryStore{}},
		{"sqlite", &store.SQLiteStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.storeType, func(t *testing.T) {
			cfg.Set("store.type", tt.storeType)

			backend, err := f.CreateBackend(context.Background())

			require.NoError(t, err)
			assert.IsType(t, tt.want, backend)
			assert.NoError(t, backend.Close())
		})
	}

	cfg.Set("store.type", "floppy")
	_, err := f.CreateBackend(context.Background())
	assert.ErrorContains(t, err, "unsupported store type")
}
