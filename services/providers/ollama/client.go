// Package ollama implements the local model server backend.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/upb/ai-worker/config"
	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/services/providers"
	"github.com/upb/ai-worker/utils"
)

const responseTextLimit = 300

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Client calls {base}/api/generate with streaming disabled
type Client struct {
	baseURL string
	model   string
	http    *resty.Client
}

// NewClient creates the ollama backend. Missing configuration is reported per request.
func NewClient(cfg config.OllamaConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Mode returns ollama
func (c *Client) Mode() providers.Mode {
	return providers.ModeOllama
}

// ResolveModel returns the override, else the configured model, else the built-in default
func (c *Client) ResolveModel(override string) string {
	switch {
	case override != "":
		return strings.TrimSpace(override)
	case c.model != "":
		return strings.TrimSpace(c.model)
	default:
		return config.DefaultOllamaModel
	}
}

// Generate posts the prompt and returns the "response" field of the reply
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (string, error) {
	if c.baseURL == "" {
		return "", services.NewConfigError(services.CodeOllamaNotConfigured, "OLLAMA_BASE_URL is not set")
	}

	model := c.ResolveModel(req.ModelOverride)
	if model == "" {
		return "", services.NewConfigError(services.CodeOllamaModelNotConfigured, "OLLAMA_MODEL is not set")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{Model: model, Prompt: req.Prompt, Stream: false}).
		Post(c.baseURL + "/api/generate")
	if err != nil {
		return "", services.NewDownstreamError(services.CodeOllamaRequestFailed, "Ollama request failed", err).
			WithDetail("base_url", c.baseURL).
			WithDetail("model", model)
	}

	if !resp.IsSuccess() {
		return "", services.NewDownstreamError(services.CodeOllamaRequestFailed, "Ollama request failed",
			fmt.Errorf("%s for url %s", resp.Status(), resp.Request.URL)).
			WithDetail("base_url", c.baseURL).
			WithDetail("model", model).
			WithDetail("status_code", resp.StatusCode())
	}

	body := resp.Body()
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return "", services.NewDownstreamError(services.CodeOllamaInvalidJSON, "Ollama returned non-JSON response", nil).
			WithDetail("response_text", utils.TruncateRunes(string(body), responseTextLimit))
	}

	output, _ := payload["response"].(string)
	return output, nil
}
