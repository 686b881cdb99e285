// Package openai implements the hosted chat-completion backend.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/upb/ai-worker/config"
	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/services/providers"
)

var errEmptyChoices = errors.New("response contained no choices")

// Adapter sends the prompt as a single user message to the hosted API
type Adapter struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAdapter creates the openai backend. Missing credentials are reported per request.
func NewAdapter(cfg config.OpenAIConfig) *Adapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Adapter{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Mode returns openai
func (a *Adapter) Mode() providers.Mode {
	return providers.ModeOpenAI
}

// ResolveModel returns the override, or the configured model, trimmed
func (a *Adapter) ResolveModel(override string) string {
	if override != "" {
		return strings.TrimSpace(override)
	}
	return strings.TrimSpace(a.model)
}

// Generate performs one chat completion and returns the first choice's content
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (string, error) {
	apiKey := strings.TrimSpace(a.apiKey)
	if apiKey == "" {
		return "", services.NewConfigError(services.CodeOpenAINotConfigured, "OPENAI_API_KEY is not set")
	}

	model := a.ResolveModel(req.ModelOverride)
	if model == "" {
		return "", services.NewConfigError(services.CodeOpenAIModelNotConfigured, "OPENAI_MODEL is not set")
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(model),
		lcopenai.WithHTTPClient(a.httpClient),
	}
	if a.baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(a.baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return "", services.NewDownstreamError(services.CodeOpenAIRequestFailed, "OpenAI request failed", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, req.Prompt),
	}

	resp, err := client.GenerateContent(ctx, messages)
	if err != nil {
		return "", services.NewDownstreamError(services.CodeOpenAIRequestFailed, "OpenAI request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", services.NewDownstreamError(services.CodeOpenAIRequestFailed, "OpenAI request failed", errEmptyChoices)
	}

	return resp.Choices[0].Content, nil
}
