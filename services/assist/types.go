package assist

import (
	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/tools"
	"github.com/upb/ai-worker/services/providers"
)

// DefaultTopK is used when the request omits top_k
const DefaultTopK = 3

// AssistRequest represents an assist request from the client
type AssistRequest struct {
	// Message is the user question
	Message string `json:"message" validate:"required"`

	// Mode is one of auto, openai, ollama, rag_only. Defaults to auto.
	Mode string `json:"mode,omitempty"`

	// Model optionally overrides the backend's configured model
	Model string `json:"model,omitempty"`

	// TopK is the number of documents to retrieve. Defaults to DefaultTopK.
	TopK *int `json:"top_k,omitempty" validate:"omitempty,gte=0"`
}

// ApplyDefaults fills in omitted optional fields
func (r *AssistRequest) ApplyDefaults() {
	if r.Mode == "" {
		r.Mode = string(providers.ModeAuto)
	}
	if r.TopK == nil {
		topK := DefaultTopK
		r.TopK = &topK
	}
}

// Limit returns the effective top_k
func (r *AssistRequest) Limit() int {
	if r.TopK == nil {
		return DefaultTopK
	}
	return *r.TopK
}

// AssistResponse represents the response to an assist request
type AssistResponse struct {
	RequestID     string                  `json:"request_id"`
	RequestedMode string                  `json:"requested_mode"`
	ResolvedMode  providers.Mode          `json:"resolved_mode"`
	Model         *string                 `json:"model"`
	Retrieved     []rag.RetrievedDocument `json:"retrieved"`
	Output        string                  `json:"output"`
	ToolTrace     []tools.TraceEvent      `json:"tool_trace"`
}
