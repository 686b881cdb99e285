package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ai-worker/services"
)

func newTestRetriever(t *testing.T, docs []Document) *Retriever {
	t.Helper()
	embedder := newTestEmbedder(t)
	corpus, err := NewCorpus(context.Background(), docs, embedder)
	require.NoError(t, err)
	return NewRetriever(corpus, embedder)
}

func TestRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()
	docs := []Document{
		{Source: "billing.md", Text: "Invoices are generated monthly for every customer account."},
		{Source: "deploy.md", Text: "Deploy the service with the release pipeline and verify health checks."},
		{Source: "oncall.md", Text: "The on call engineer handles incident response and paging."},
	}
	r := newTestRetriever(t, docs)

	t.Run("most similar document first", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "how do I deploy the service", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "deploy.md", results[0].Source)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("top k limits results", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "incident", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "oncall.md", results[0].Source)
	})

	t.Run("top k larger than corpus", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "incident", 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("zero top k", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "incident", 0)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("ties keep corpus order", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "billing.md", results[0].Source)
		assert.Equal(t, "deploy.md", results[1].Source)
		assert.Equal(t, "oncall.md", results[2].Source)
		assert.Zero(t, results[0].Score)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := r.Retrieve(ctx, "release pipeline", 3)
		require.NoError(t, err)
		b, err := r.Retrieve(ctx, "release pipeline", 3)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestRetriever_Snippet(t *testing.T) {
	long := strings.Repeat("é", 350)
	r := newTestRetriever(t, []Document{{Source: "long.md", Text: long}, {Source: "short.md", Text: "short"}})

	results, err := r.Retrieve(context.Background(), "anything", 2)
	require.NoError(t, err)

	bySource := map[string]string{}
	for _, doc := range results {
		bySource[doc.Source] = doc.Snippet
	}
	assert.Equal(t, SnippetLength, utf8.RuneCountInString(bySource["long.md"]))
	assert.Equal(t, "short", bySource["short.md"])
}

func TestRetriever_EmptyCorpus(t *testing.T) {
	r := NewRetriever(nil, newTestEmbedder(t))

	results, err := r.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRetriever_EmbeddingFailure(t *testing.T) {
	corpus, err := NewCorpus(context.Background(), []Document{{Source: "a.md", Text: "a"}}, newTestEmbedder(t))
	require.NoError(t, err)
	r := NewRetriever(corpus, &countingEmbedder{err: errors.New("model offline")})

	_, err = r.Retrieve(context.Background(), "a", 1)

	require.Error(t, err)
	assert.Equal(t, services.CodeEmbeddingFailed, services.GetErrorCode(err))
	assert.Equal(t, 502, services.GetErrorStatus(err))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
