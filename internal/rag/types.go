package rag

import "context"

// SnippetLength is the maximum number of characters returned per retrieved document
const SnippetLength = 300

// Embedder generates vector embeddings for text.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Document is one knowledge-base entry held by the corpus.
type Document struct {
	Source string
	Text   string
}

// RetrievedDocument is a ranked corpus entry returned for a query.
type RetrievedDocument struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
