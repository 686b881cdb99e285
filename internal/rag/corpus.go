package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Corpus is the embedded knowledge base. It is built once and never mutated.
type Corpus struct {
	documents []Document
	vectors   [][]float32
}

// NewCorpus embeds documents in the given order
func NewCorpus(ctx context.Context, documents []Document, embedder Embedder) (*Corpus, error) {
	if len(documents) == 0 {
		return &Corpus{}, nil
	}

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(documents) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d documents", len(vectors), len(documents))
	}

	docs := make([]Document, len(documents))
	copy(docs, documents)
	return &Corpus{documents: docs, vectors: vectors}, nil
}

// LoadCorpus reads every *.md file directly under dir in lexical filename order.
// A missing directory yields an empty corpus.
func LoadCorpus(ctx context.Context, fs afero.Fs, dir string, embedder Embedder, logger *zap.Logger) (*Corpus, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Knowledge base directory not found, starting with empty corpus", zap.String("path", dir))
			return &Corpus{}, nil
		}
		return nil, fmt.Errorf("read knowledge base %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var documents []Document
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := afero.ReadFile(fs, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		documents = append(documents, Document{Source: entry.Name(), Text: string(content)})
	}

	corpus, err := NewCorpus(ctx, documents, embedder)
	if err != nil {
		return nil, err
	}

	logger.Info("Knowledge base loaded",
		zap.String("path", dir),
		zap.Int("documents", corpus.Len()),
	)
	return corpus, nil
}

// Len returns the number of documents
func (c *Corpus) Len() int {
	return len(c.documents)
}

// Documents returns a copy of the documents in corpus order
func (c *Corpus) Documents() []Document {
	docs := make([]Document, len(c.documents))
	copy(docs, c.documents)
	return docs
}
