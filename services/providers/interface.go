package providers

import (
	"context"

	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/tools"
)

// Mode identifies a generation strategy
type Mode string

// Modes accepted on the wire. ModeAuto is resolved before a backend is chosen.
const (
	ModeAuto    Mode = "auto"
	ModeOpenAI  Mode = "openai"
	ModeOllama  Mode = "ollama"
	ModeRAGOnly Mode = "rag_only"
)

// SupportedModes lists every mode a client may request, in documentation order
func SupportedModes() []string {
	return []string{string(ModeAuto), string(ModeOpenAI), string(ModeOllama), string(ModeRAGOnly)}
}

// Backend produces the answer text for a resolved mode
type Backend interface {
	// Mode returns the concrete mode this backend serves
	Mode() Mode

	// ResolveModel returns the model that Generate would use for override,
	// or "" when the backend does not use a model
	ResolveModel(override string) string

	// Generate returns the output text. Errors are *services.BackendError.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}

// GenerateRequest carries everything a backend may need
type GenerateRequest struct {
	// Prompt is the fully assembled prompt
	Prompt string

	// ModelOverride is the caller-supplied model, empty when absent
	ModelOverride string

	// Question is the raw user message
	Question string

	// Retrieved documents in ranked order
	Retrieved []rag.RetrievedDocument

	// ToolTrace in invocation order
	ToolTrace []tools.TraceEvent
}
