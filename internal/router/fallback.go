package router

import "github.com/upb/ai-worker/services/providers"

// autoFallback picks the backend for auto requests: the hosted API when a key
// is configured, otherwise the deterministic rag_only answer.
// The local model server is never chosen automatically.
func autoFallback(openAIKey string) providers.Mode {
	if hasCredential(openAIKey) {
		return providers.ModeOpenAI
	}
	return providers.ModeRAGOnly
}
