package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/ai-worker/middleware"
	"github.com/upb/ai-worker/services/assist"
	"github.com/upb/ai-worker/utils"
	"go.uber.org/zap"
)

// AssistService defines the interface for assist operations
type AssistService interface {
	Assist(ctx context.Context, req *assist.AssistRequest) (*assist.AssistResponse, error)
}

// AssistHandler handles assist HTTP requests
type AssistHandler struct {
	service AssistService
	logger  *zap.Logger
}

// NewAssistHandler creates a new AssistHandler
func NewAssistHandler(service AssistService, logger *zap.Logger) *AssistHandler {
	return &AssistHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAssist handles POST /v1/assist
func (h *AssistHandler) HandleAssist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(zap.String("http_request_id", middleware.GetRequestIDFromContext(ctx)))

	var req assist.AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Debug("failed to decode assist request", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", map[string]interface{}{"reason": err.Error()})
		return
	}

	req.ApplyDefaults()
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	resp, err := h.service.Assist(ctx, &req)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, resp); err != nil {
		logger.Error("failed to write assist response", zap.Error(err))
	}
}
