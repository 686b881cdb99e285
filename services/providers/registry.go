package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/upb/ai-worker/services"
)

var (
	// ErrBackendAlreadyRegistered is returned when a mode already has a backend
	ErrBackendAlreadyRegistered = errors.New("backend already registered")
)

// Registry maps concrete modes to backends
type Registry struct {
	mu       sync.RWMutex
	backends map[Mode]Backend
}

// NewRegistry creates a registry holding the given backends
func NewRegistry(backends ...Backend) (*Registry, error) {
	r := &Registry{backends: make(map[Mode]Backend)}
	for _, b := range backends {
		if err := r.Register(b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a backend for its mode
func (r *Registry) Register(backend Backend) error {
	if backend == nil {
		return errors.New("backend cannot be nil")
	}

	mode := backend.Mode()
	if mode == "" || mode == ModeAuto {
		return fmt.Errorf("backend mode %q is not a concrete mode", mode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[mode]; exists {
		return fmt.Errorf("%w: %s", ErrBackendAlreadyRegistered, mode)
	}

	r.backends[mode] = backend
	return nil
}

// Get returns the backend for mode, or an unsupported_mode error
func (r *Registry) Get(mode Mode) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, exists := r.backends[mode]
	if !exists {
		return nil, services.NewUnsupportedModeError(string(mode), SupportedModes())
	}

	return backend, nil
}

// Modes returns the registered modes in lexical order
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]Mode, 0, len(r.backends))
	for mode := range r.backends {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}
