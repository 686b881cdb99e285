package rag

import (
	"context"
	"math"
	"sort"

	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/utils"
)

// Retriever ranks corpus documents against a query.
type Retriever struct {
	corpus   *Corpus
	embedder Embedder
}

// NewRetriever creates a retriever over corpus. The embedder must be the one the corpus was built with.
func NewRetriever(corpus *Corpus, embedder Embedder) *Retriever {
	if corpus == nil {
		corpus = &Corpus{}
	}
	return &Retriever{corpus: corpus, embedder: embedder}
}

type scored struct {
	index int
	score float64
}

// Retrieve returns up to topK documents ordered by descending cosine similarity.
// Equal scores keep corpus order.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]RetrievedDocument, error) {
	if topK <= 0 || r.corpus.Len() == 0 {
		return []RetrievedDocument{}, nil
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, services.NewDownstreamError(services.CodeEmbeddingFailed, "Failed to embed query", err)
	}

	ranked := make([]scored, r.corpus.Len())
	for i, vec := range r.corpus.vectors {
		ranked[i] = scored{index: i, score: cosineSimilarity(queryVec, vec)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if topK > len(ranked) {
		topK = len(ranked)
	}

	results := make([]RetrievedDocument, 0, topK)
	for _, s := range ranked[:topK] {
		doc := r.corpus.documents[s.index]
		results = append(results, RetrievedDocument{
			Source:  doc.Source,
			Score:   s.score,
			Snippet: utils.TruncateRunes(doc.Text, SnippetLength),
		})
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
