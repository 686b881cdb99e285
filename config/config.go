package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultOllamaModel is used when neither the request nor OLLAMA_MODEL names a model
const DefaultOllamaModel = "llama3.2:1b"

// Embedding providers
const (
	EmbeddingProviderHash   = "hash"
	EmbeddingProviderOllama = "ollama"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Tools         ToolsConfig
	Knowledge     KnowledgeConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ProvidersConfig holds generation backend configurations
type ProvidersConfig struct {
	OpenAI OpenAIConfig
	Ollama OllamaConfig
}

// OpenAIConfig holds hosted API configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override, empty means the client default
	Timeout time.Duration
}

// OllamaConfig holds local model server configuration
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ToolsConfig holds the tool-execution service configuration
type ToolsConfig struct {
	BaseURL string
	Timeout time.Duration
}

// KnowledgeConfig holds knowledge base and embedding configuration
type KnowledgeConfig struct {
	Path               string
	EmbeddingProvider  string
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingCacheSize int
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	LogFile        string // optional rotating log file
	MetricsEnabled bool
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("OPENAI_MODEL", ""),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
				Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
			},
			Ollama: OllamaConfig{
				BaseURL: getEnv("OLLAMA_BASE_URL", ""),
				Model:   getEnv("OLLAMA_MODEL", ""),
				Timeout: getEnvAsDuration("OLLAMA_TIMEOUT", 60*time.Second),
			},
		},
		Tools: ToolsConfig{
			BaseURL: getEnv("TOOLS_BASE_URL", "http://mcp-server:9000"),
			Timeout: getEnvAsDuration("TOOLS_TIMEOUT", 10*time.Second),
		},
		Knowledge: KnowledgeConfig{
			Path:               getEnv("KB_PATH", "data/knowledge_base"),
			EmbeddingProvider:  strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingProviderHash)),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			EmbeddingCacheSize: getEnvAsInt("EMBEDDING_CACHE_SIZE", 256),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			LogFile:        getEnv("LOG_FILE", ""),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set.
// Backend credentials are not checked here; each backend reports a missing key per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Providers.OpenAI.Timeout <= 0 || c.Providers.Ollama.Timeout <= 0 {
		return fmt.Errorf("provider timeouts must be positive")
	}

	if c.Tools.Timeout <= 0 {
		return fmt.Errorf("tools timeout must be positive")
	}

	switch c.Knowledge.EmbeddingProvider {
	case EmbeddingProviderHash:
		if c.Knowledge.EmbeddingDimension <= 0 {
			return fmt.Errorf("embedding dimension must be greater than zero")
		}
	case EmbeddingProviderOllama:
		if strings.TrimSpace(c.Providers.Ollama.BaseURL) == "" {
			return fmt.Errorf("ollama embedding provider requires OLLAMA_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Knowledge.EmbeddingProvider)
	}

	if c.Knowledge.EmbeddingCacheSize < 0 {
		return fmt.Errorf("embedding cache size cannot be negative")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
