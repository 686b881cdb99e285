package ragonly

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/tools"
	"github.com/upb/ai-worker/services/providers"
)

const guidance = "\n\nNext Steps:\n- Add OPENAI_API_KEY to enable OpenAI synthesis.\n" +
	"- Or call mode=\"ollama\" to use the local Ollama container."

func TestBackend_Contract(t *testing.T) {
	b := NewBackend()

	assert.Equal(t, providers.ModeRAGOnly, b.Mode())
	assert.Empty(t, b.ResolveModel("gpt-4o"))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		docs  []rag.RetrievedDocument
		trace []tools.TraceEvent
		want  string
	}{
		{
			name: "no documents and no tools",
			want: "RAG-only response (safe default when OpenAI is not configured).\n\n" +
				"Summary:\n1. No matching knowledge-base documents were retrieved.\n\n" +
				"Tool Observations:\n- No tools were invoked for this prompt." + guidance,
		},
		{
			name: "documents with whitespace normalised",
			docs: []rag.RetrievedDocument{
				{Source: "deploy.md", Snippet: "  # Deploy\n\nRun   the\tpipeline.  "},
				{Source: "oncall.md", Snippet: "Page the on-call engineer."},
			},
			want: "RAG-only response (safe default when OpenAI is not configured).\n\n" +
				"Summary:\n1. [deploy.md] # Deploy Run the pipeline.\n2. [oncall.md] Page the on-call engineer.\n\n" +
				"Tool Observations:\n- No tools were invoked for this prompt." + guidance,
		},
		{
			name: "tool observations",
			trace: []tools.TraceEvent{
				{Tool: tools.ToolListKBFiles, Result: &tools.KBFilesResult{Files: []string{"a.md", "b.md"}}},
				{Tool: tools.ToolSystemInfo, Result: tools.NewResult(tools.ToolSystemInfo,
					json.RawMessage(`{"platform":"Linux","cpu_percent":12.5,"memory_percent":48.1}`))},
			},
			want: "RAG-only response (safe default when OpenAI is not configured).\n\n" +
				"Summary:\n1. No matching knowledge-base documents were retrieved.\n\n" +
				"Tool Observations:\n- list_kb_files -> [\"a.md\",\"b.md\"]\n" +
				"- system_info -> platform=Linux, cpu=12.5%, memory=48.1%" + guidance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.docs, tt.trace))
		})
	}
}

func TestRender_SystemInfoMissingFields(t *testing.T) {
	trace := []tools.TraceEvent{
		{Tool: tools.ToolSystemInfo, Result: tools.NewResult(tools.ToolSystemInfo, json.RawMessage(`{"error":"unknown tool"}`))},
	}

	out := Render(nil, trace)

	assert.Contains(t, out, "- system_info -> platform=n/a, cpu=n/a%, memory=n/a%")
}

func TestRender_SystemInfoNullFields(t *testing.T) {
	trace := []tools.TraceEvent{
		{Tool: tools.ToolSystemInfo, Result: tools.NewResult(tools.ToolSystemInfo,
			json.RawMessage(`{"platform":null,"cpu_percent":null,"memory_percent":12.5}`))},
	}

	out := Render(nil, trace)

	assert.Contains(t, out, "- system_info -> platform=n/a, cpu=n/a%, memory=12.5%")
}

func TestRender_GenericTool(t *testing.T) {
	trace := []tools.TraceEvent{
		{Tool: "weather", Result: tools.NewResult("weather", json.RawMessage(`{"temp":21}`))},
	}

	out := Render(nil, trace)

	assert.Contains(t, out, `- weather -> {"temp":21}`)
}

func TestRender_SnippetTruncatedTo180Characters(t *testing.T) {
	docs := []rag.RetrievedDocument{{Source: "long.md", Snippet: strings.Repeat("a", 300)}}

	out := Render(docs, nil)

	assert.Contains(t, out, "1. [long.md] "+strings.Repeat("a", 180)+"\n")
	assert.NotContains(t, out, strings.Repeat("a", 181))
}

func TestBackend_Generate(t *testing.T) {
	docs := []rag.RetrievedDocument{{Source: "a.md", Snippet: "alpha"}}

	first, err := NewBackend().Generate(context.Background(), &providers.GenerateRequest{Retrieved: docs})
	require.NoError(t, err)
	second, err := NewBackend().Generate(context.Background(), &providers.GenerateRequest{Retrieved: docs})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Render(docs, nil), first)
}
