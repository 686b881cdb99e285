package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/afero"
	"github.com/upb/ai-worker/config"
	"github.com/upb/ai-worker/handlers"
	"github.com/upb/ai-worker/internal/observability"
	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/router"
	"github.com/upb/ai-worker/internal/tools"
	"github.com/upb/ai-worker/services/assist"
	"github.com/upb/ai-worker/services/providers"
	"github.com/upb/ai-worker/services/providers/ollama"
	"github.com/upb/ai-worker/services/providers/openai"
	"github.com/upb/ai-worker/services/providers/ragonly"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	FS      afero.Fs
	Metrics observability.Metrics

	// MetricsHandler serves the Prometheus registry; nil when metrics are disabled
	MetricsHandler http.Handler

	// Knowledge base
	Embedder  rag.Embedder
	Corpus    *rag.Corpus
	Retriever *rag.Retriever

	// Pipeline
	Tools    *tools.Dispatcher
	Backends *providers.Registry
	Resolver *router.Resolver
	Assist   *assist.Service

	// Handlers
	AssistHandler *handlers.AssistHandler
	HealthHandler *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
// reading the knowledge base from the OS filesystem.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	return NewDependenciesWithFS(ctx, cfg, afero.NewOsFs(), logger)
}

// NewDependenciesWithFS is NewDependencies over an explicit filesystem
func NewDependenciesWithFS(ctx context.Context, cfg *config.Config, fs afero.Fs, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		FS:     fs,
	}

	deps.initMetrics(cfg)

	// Initialize knowledge base
	if err := deps.initKnowledgeBase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize knowledge base: %w", err)
	}

	// Initialize generation backends
	if err := deps.initBackends(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize backends: %w", err)
	}

	deps.initPipeline(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.String("default_mode", string(deps.Resolver.DefaultMode())),
		zap.Int("corpus_documents", deps.Corpus.Len()),
	)
	return deps, nil
}

func (d *Dependencies) initMetrics(cfg *config.Config) {
	if !cfg.Observability.MetricsEnabled {
		d.Metrics = observability.NoopMetrics{}
		return
	}
	prom := observability.NewPrometheusMetrics()
	d.Metrics = prom
	d.MetricsHandler = prom.Handler()
}

// initKnowledgeBase builds the embedder and embeds the corpus once at startup
func (d *Dependencies) initKnowledgeBase(ctx context.Context, cfg *config.Config) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	d.Embedder = embedder

	corpus, err := rag.LoadCorpus(ctx, d.FS, cfg.Knowledge.Path, embedder, d.Logger)
	if err != nil {
		return err
	}
	d.Corpus = corpus
	d.Retriever = rag.NewRetriever(corpus, embedder)
	d.Metrics.SetCorpusSize(corpus.Len())

	d.Logger.Info("knowledge base initialized",
		zap.String("embedding_provider", cfg.Knowledge.EmbeddingProvider),
		zap.Int("embedding_cache_size", cfg.Knowledge.EmbeddingCacheSize))
	return nil
}

func newEmbedder(cfg *config.Config) (rag.Embedder, error) {
	var base rag.Embedder
	switch cfg.Knowledge.EmbeddingProvider {
	case config.EmbeddingProviderOllama:
		embedder, err := rag.NewOllamaEmbedder(cfg.Providers.Ollama.BaseURL, cfg.Knowledge.EmbeddingModel, cfg.Providers.Ollama.Timeout)
		if err != nil {
			return nil, err
		}
		base = embedder
	default:
		embedder, err := rag.NewHashEmbedder(cfg.Knowledge.EmbeddingDimension)
		if err != nil {
			return nil, err
		}
		base = embedder
	}

	if cfg.Knowledge.EmbeddingCacheSize == 0 {
		return base, nil
	}
	cached, err := rag.NewCachedEmbedder(base, cfg.Knowledge.EmbeddingCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// initBackends registers every generation backend. Credentials are checked per request.
func (d *Dependencies) initBackends(cfg *config.Config) error {
	registry, err := providers.NewRegistry(
		openai.NewAdapter(cfg.Providers.OpenAI),
		ollama.NewClient(cfg.Providers.Ollama),
		ragonly.NewBackend(),
	)
	if err != nil {
		return err
	}
	d.Backends = registry

	if cfg.Providers.OpenAI.APIKey == "" {
		d.Logger.Warn("OPENAI_API_KEY not set, auto mode resolves to rag_only")
	}
	if cfg.Providers.Ollama.BaseURL == "" {
		d.Logger.Warn("OLLAMA_BASE_URL not set, ollama mode requests will be rejected")
	}
	return nil
}

func (d *Dependencies) initPipeline(cfg *config.Config) {
	toolClient := tools.NewClient(cfg.Tools.BaseURL, cfg.Tools.Timeout)
	d.Tools = tools.NewDispatcher(d.FS, cfg.Knowledge.Path, toolClient, d.Metrics, d.Logger)
	d.Resolver = router.NewResolver(cfg.Providers.OpenAI.APIKey)
	d.Assist = assist.NewService(d.Resolver, d.Retriever, d.Tools, d.Backends, d.Metrics, d.Logger)

	d.AssistHandler = handlers.NewAssistHandler(d.Assist, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Resolver, d.Corpus.Len, d.Backends.Modes, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}
	return nil
}
