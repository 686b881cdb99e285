package app

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ai-worker/config"
	"github.com/upb/ai-worker/internal/observability"
	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/services/providers"
	"go.uber.org/zap/zaptest"
)

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig()
		logger := zaptest.NewLogger(t)

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "kb/deploy.md", []byte("# Deploy\nRun make release."), 0o644))
		require.NoError(t, afero.WriteFile(fs, "kb/oncall.md", []byte("# On-call\nPage the incident lead."), 0o644))

		deps, err := NewDependenciesWithFS(ctx, cfg, fs, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Verify infrastructure
		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.Logger)
		assert.NotNil(t, deps.MetricsHandler)
		assert.IsType(t, &observability.PrometheusMetrics{}, deps.Metrics)

		// Verify knowledge base
		assert.Equal(t, 2, deps.Corpus.Len())
		assert.IsType(t, &rag.CachedEmbedder{}, deps.Embedder)
		assert.NotNil(t, deps.Retriever)

		// Verify pipeline
		assert.Equal(t, []providers.Mode{providers.ModeOllama, providers.ModeOpenAI, providers.ModeRAGOnly}, deps.Backends.Modes())
		assert.Equal(t, providers.ModeRAGOnly, deps.Resolver.DefaultMode())
		assert.NotNil(t, deps.Tools)
		assert.NotNil(t, deps.Assist)
		assert.NotNil(t, deps.AssistHandler)
		assert.NotNil(t, deps.HealthHandler)

		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("missing knowledge base yields empty corpus", func(t *testing.T) {
		deps, err := NewDependenciesWithFS(context.Background(), testConfig(), afero.NewMemMapFs(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, 0, deps.Corpus.Len())
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Observability.MetricsEnabled = false

		deps, err := NewDependenciesWithFS(context.Background(), cfg, afero.NewMemMapFs(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Nil(t, deps.MetricsHandler)
		assert.Equal(t, observability.NoopMetrics{}, deps.Metrics)
	})

	t.Run("cache disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Knowledge.EmbeddingCacheSize = 0

		deps, err := NewDependenciesWithFS(context.Background(), cfg, afero.NewMemMapFs(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &rag.HashEmbedder{}, deps.Embedder)
	})

	t.Run("openai key switches default mode", func(t *testing.T) {
		cfg := testConfig()
		cfg.Providers.OpenAI.APIKey = "sk-test"

		deps, err := NewDependenciesWithFS(context.Background(), cfg, afero.NewMemMapFs(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, providers.ModeOpenAI, deps.Resolver.DefaultMode())
	})

	t.Run("invalid embedding dimension", func(t *testing.T) {
		cfg := testConfig()
		cfg.Knowledge.EmbeddingDimension = 0

		deps, err := NewDependenciesWithFS(context.Background(), cfg, afero.NewMemMapFs(), zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize knowledge base")
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Providers: config.ProvidersConfig{
			OpenAI: config.OpenAIConfig{Timeout: 60 * time.Second},
			Ollama: config.OllamaConfig{Timeout: 60 * time.Second},
		},
		Tools: config.ToolsConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
		Knowledge: config.KnowledgeConfig{
			Path:               "kb",
			EmbeddingProvider:  config.EmbeddingProviderHash,
			EmbeddingDimension: 64,
			EmbeddingCacheSize: 16,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:       "error",
			LogFormat:      "json",
			MetricsEnabled: true,
		},
	}
}
