// Package router resolves the requested assist mode into the concrete backend mode.
package router

import (
	"strings"

	"github.com/upb/ai-worker/services/providers"
)

// Decision is the outcome of resolving a requested mode
type Decision struct {
	Requested string
	Mode      providers.Mode
	// Fallback is true when the mode was chosen by the auto policy
	Fallback bool
}

// Resolver maps requested modes to concrete modes. It holds only configuration and is safe for concurrent use.
type Resolver struct {
	openAIKey string
}

// NewResolver creates a resolver using the configured hosted-API key
func NewResolver(openAIKey string) *Resolver {
	return &Resolver{openAIKey: openAIKey}
}

// Decide resolves requested. Any value other than auto is returned unchanged,
// including literals no backend supports.
func (r *Resolver) Decide(requested string) Decision {
	if requested == string(providers.ModeAuto) {
		return Decision{Requested: requested, Mode: autoFallback(r.openAIKey), Fallback: true}
	}
	return Decision{Requested: requested, Mode: providers.Mode(requested)}
}

// Resolve returns the concrete mode for requested
func (r *Resolver) Resolve(requested string) providers.Mode {
	return r.Decide(requested).Mode
}

// DefaultMode is the mode an auto request resolves to
func (r *Resolver) DefaultMode() providers.Mode {
	return r.Resolve(string(providers.ModeAuto))
}

// OpenAIConfigured reports whether auto requests go to the hosted API
func (r *Resolver) OpenAIConfigured() bool {
	return r.DefaultMode() == providers.ModeOpenAI
}

func hasCredential(key string) bool {
	return strings.TrimSpace(key) != ""
}
