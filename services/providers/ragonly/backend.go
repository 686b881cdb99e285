// Package ragonly implements the deterministic backend that answers from
// retrieved snippets and tool results without calling a model.
package ragonly

import (
	"context"
	"fmt"
	"strings"

	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/tools"
	"github.com/upb/ai-worker/services/providers"
	"github.com/upb/ai-worker/utils"
)

const summarySnippetLength = 180

// Backend synthesizes a structured answer. It performs no I/O and never fails.
type Backend struct{}

// NewBackend creates the rag_only backend
func NewBackend() *Backend {
	return &Backend{}
}

// Mode returns rag_only
func (b *Backend) Mode() providers.Mode {
	return providers.ModeRAGOnly
}

// ResolveModel always returns "" since no model is used
func (b *Backend) ResolveModel(string) string {
	return ""
}

// Generate renders the answer from req.Retrieved and req.ToolTrace
func (b *Backend) Generate(_ context.Context, req *providers.GenerateRequest) (string, error) {
	return Render(req.Retrieved, req.ToolTrace), nil
}

// Render builds the rag_only answer text
func Render(docs []rag.RetrievedDocument, trace []tools.TraceEvent) string {
	lines := []string{
		"RAG-only response (safe default when OpenAI is not configured).",
		"",
		"Summary:",
	}
	lines = append(lines, summaryLines(docs)...)
	lines = append(lines, "", "Tool Observations:")
	lines = append(lines, toolLines(trace)...)
	lines = append(lines,
		"",
		"Next Steps:",
		"- Add OPENAI_API_KEY to enable OpenAI synthesis.",
		`- Or call mode="ollama" to use the local Ollama container.`,
	)
	return strings.Join(lines, "\n")
}

func summaryLines(docs []rag.RetrievedDocument) []string {
	if len(docs) == 0 {
		return []string{"1. No matching knowledge-base documents were retrieved."}
	}

	lines := make([]string, 0, len(docs))
	for i, doc := range docs {
		snippet := utils.TruncateRunes(utils.CollapseWhitespace(doc.Snippet), summarySnippetLength)
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, doc.Source, snippet))
	}
	return lines
}

func toolLines(trace []tools.TraceEvent) []string {
	if len(trace) == 0 {
		return []string{"- No tools were invoked for this prompt."}
	}

	lines := make([]string, 0, len(trace))
	for _, event := range trace {
		lines = append(lines, toolLine(event))
	}
	return lines
}

func toolLine(event tools.TraceEvent) string {
	switch result := event.Result.(type) {
	case *tools.SystemInfoResult:
		return fmt.Sprintf("- %s -> platform=%s, cpu=%s%%, memory=%s%%",
			event.Tool, result.PlatformLabel(), result.CPULabel(), result.MemoryLabel())
	case *tools.KBFilesResult:
		return fmt.Sprintf("- %s -> %s", event.Tool, result.String())
	case *tools.GenericResult:
		return fmt.Sprintf("- %s -> %s", event.Tool, result.String())
	default:
		return fmt.Sprintf("- %s -> null", event.Tool)
	}
}
