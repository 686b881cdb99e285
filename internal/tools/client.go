package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/utils"
)

const responseTextLimit = 300

// Invoker executes a named tool on the tool service.
type Invoker interface {
	Invoke(ctx context.Context, tool string, payload map[string]interface{}) (json.RawMessage, error)
}

// Client calls the tool-execution service over HTTP.
type Client struct {
	client  *resty.Client
	baseURL string
}

type toolRequest struct {
	Tool    string                 `json:"tool"`
	Payload map[string]interface{} `json:"payload"`
}

// NewClient creates a tool-service client. Every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{client: client, baseURL: baseURL}
}

// Invoke posts {tool, payload} to {base}/tool and returns the JSON response body
func (c *Client) Invoke(ctx context.Context, tool string, payload map[string]interface{}) (json.RawMessage, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(toolRequest{Tool: tool, Payload: payload}).
		Post("/tool")
	if err != nil {
		return nil, services.NewDownstreamError(services.CodeToolRequestFailed, "Tool request failed", err).
			WithDetail("tool", tool).
			WithDetail("base_url", c.baseURL)
	}

	if !resp.IsSuccess() {
		return nil, services.NewDownstreamError(services.CodeToolRequestFailed, "Tool request failed",
			fmt.Errorf("tool service returned status %d", resp.StatusCode())).
			WithDetail("tool", tool).
			WithDetail("base_url", c.baseURL).
			WithDetail("status_code", resp.StatusCode())
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, services.NewDownstreamError(services.CodeToolInvalidJSON, "Tool returned non-JSON response", nil).
			WithDetail("tool", tool).
			WithDetail("response_text", utils.TruncateRunes(string(body), responseTextLimit))
	}

	return json.RawMessage(body), nil
}
