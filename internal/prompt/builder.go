// Package prompt assembles the generation prompt from retrieved context and the user question.
package prompt

import (
	"strings"

	"github.com/upb/ai-worker/internal/rag"
)

// Build returns the prompt for question. Document snippets are joined in the
// given order, separated by a blank line. The question is inserted verbatim.
func Build(question string, docs []rag.RetrievedDocument) string {
	snippets := make([]string, len(docs))
	for i, doc := range docs {
		snippets[i] = doc.Snippet
	}

	var b strings.Builder
	b.WriteString("\nContext:\n")
	b.WriteString(strings.Join(snippets, "\n\n"))
	b.WriteString("\n\nUser Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nRespond with:\n- Summary\n- Action Items\n- Risks\n- Next Steps\n")
	return b.String()
}
