// Package rag provides retrieval over the local knowledge base.
//
// This package provides:
//   - An immutable Corpus loaded once at startup from markdown files
//   - Embedder implementations (feature hashing, Ollama, LRU-cached)
//   - A Retriever that ranks the corpus by cosine similarity
//
// The corpus is never mutated after LoadCorpus returns, so a single instance
// is shared by all concurrent requests without locking.
package rag
