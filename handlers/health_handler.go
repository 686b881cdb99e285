package handlers

import (
	"net/http"

	"github.com/upb/ai-worker/services/providers"
	"github.com/upb/ai-worker/utils"
	"go.uber.org/zap"
)

// ModeStatus reports how auto requests are currently resolved
type ModeStatus interface {
	DefaultMode() providers.Mode
	OpenAIConfigured() bool
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string         `json:"status"`
	DefaultMode      providers.Mode `json:"default_mode"`
	OpenAIConfigured bool           `json:"openai_configured"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status          string           `json:"status"`
	CorpusDocuments int              `json:"corpus_documents"`
	Backends        []providers.Mode `json:"backends"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	modes       ModeStatus
	corpusSize  func() int
	backendList func() []providers.Mode
	logger      *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(modes ModeStatus, corpusSize func() int, backendList func() []providers.Mode, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		modes:       modes,
		corpusSize:  corpusSize,
		backendList: backendList,
		logger:      logger,
	}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:           "ok",
		DefaultMode:      h.modes.DefaultMode(),
		OpenAIConfigured: h.modes.OpenAIConfigured(),
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleReadiness handles GET /health/ready
// The rag_only backend needs no dependencies, so a started process is always ready.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	response := ReadinessResponse{
		Status:   "ready",
		Backends: []providers.Mode{},
	}
	if h.corpusSize != nil {
		response.CorpusDocuments = h.corpusSize()
	}
	if h.backendList != nil {
		response.Backends = h.backendList()
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
