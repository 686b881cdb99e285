// Package assist orchestrates the assist pipeline: mode resolution, retrieval,
// tool dispatch, prompt assembly and backend delegation.
package assist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/upb/ai-worker/internal/observability"
	"github.com/upb/ai-worker/internal/prompt"
	"github.com/upb/ai-worker/internal/rag"
	"github.com/upb/ai-worker/internal/router"
	"github.com/upb/ai-worker/internal/tools"
	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/services/providers"
	"go.uber.org/zap"
)

// ModeResolver turns a requested mode into a concrete one
type ModeResolver interface {
	Decide(requested string) router.Decision
}

// Retriever ranks knowledge-base documents for a query
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]rag.RetrievedDocument, error)
}

// ToolDispatcher runs the tools triggered by a message
type ToolDispatcher interface {
	Dispatch(ctx context.Context, message string) ([]tools.TraceEvent, error)
}

// BackendRegistry looks up the backend for a concrete mode
type BackendRegistry interface {
	Get(mode providers.Mode) (providers.Backend, error)
}

// Service orchestrates the assist pipeline
type Service struct {
	resolver   ModeResolver
	retriever  Retriever
	dispatcher ToolDispatcher
	backends   BackendRegistry
	metrics    observability.Metrics
	logger     *zap.Logger
}

// NewService creates a new assist service with all dependencies
func NewService(
	resolver ModeResolver,
	retriever Retriever,
	dispatcher ToolDispatcher,
	backends BackendRegistry,
	metrics observability.Metrics,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{
		resolver:   resolver,
		retriever:  retriever,
		dispatcher: dispatcher,
		backends:   backends,
		metrics:    metrics,
		logger:     logger,
	}
}

// Assist answers the request without modifying it. Failures are returned as
// *services.BackendError except for unexpected internal errors.
func (s *Service) Assist(ctx context.Context, in *AssistRequest) (*AssistResponse, error) {
	start := time.Now()
	req := *in
	req.ApplyDefaults()
	requestID := uuid.New().String()

	logger := s.logger.With(zap.String("request_id", requestID))

	decision := s.resolver.Decide(req.Mode)
	labels := observability.RequestLabels{
		RequestedMode: modeLabel(req.Mode),
		ResolvedMode:  modeLabel(string(decision.Mode)),
	}

	logger.Info("Assist request received",
		zap.String("requested_mode", req.Mode),
		zap.String("resolved_mode", string(decision.Mode)),
		zap.Bool("auto_fallback", decision.Fallback),
		zap.Int("top_k", req.Limit()),
	)

	resp, err := s.run(ctx, &req, requestID, decision, logger)

	labels.Outcome = observability.OutcomeSuccess
	if err != nil {
		labels.Outcome = observability.OutcomeError
		code := services.GetErrorCode(err)
		if code == "" {
			code = "internal_error"
		}
		s.metrics.RecordBackendError(ctx, code)
		logger.Warn("Assist request failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	s.metrics.RecordRequest(ctx, labels)
	s.metrics.RecordLatency(ctx, time.Since(start).Seconds(), labels)

	if err != nil {
		return nil, err
	}

	logger.Info("Assist request completed",
		zap.Int("retrieved", len(resp.Retrieved)),
		zap.Int("tool_events", len(resp.ToolTrace)),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (s *Service) run(ctx context.Context, req *AssistRequest, requestID string, decision router.Decision, logger *zap.Logger) (*AssistResponse, error) {
	// Unsupported modes fail before any retrieval or tool I/O
	backend, err := s.backends.Get(decision.Mode)
	if err != nil {
		return nil, err
	}

	logger.Debug("step 1: retrieving documents")
	retrieved, err := s.retriever.Retrieve(ctx, req.Message, req.Limit())
	if err != nil {
		return nil, err
	}

	logger.Debug("step 2: dispatching tools")
	trace, err := s.dispatcher.Dispatch(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	logger.Debug("step 3: invoking backend", zap.String("mode", string(backend.Mode())))
	output, err := backend.Generate(ctx, &providers.GenerateRequest{
		Prompt:        prompt.Build(req.Message, retrieved),
		ModelOverride: req.Model,
		Question:      req.Message,
		Retrieved:     retrieved,
		ToolTrace:     trace,
	})
	if err != nil {
		return nil, err
	}

	if retrieved == nil {
		retrieved = []rag.RetrievedDocument{}
	}
	if trace == nil {
		trace = []tools.TraceEvent{}
	}

	return &AssistResponse{
		RequestID:     requestID,
		RequestedMode: req.Mode,
		ResolvedMode:  backend.Mode(),
		Model:         modelPointer(backend.ResolveModel(req.Model)),
		Retrieved:     retrieved,
		Output:        output,
		ToolTrace:     trace,
	}, nil
}

// modeLabel bounds metric label values to the known modes
func modeLabel(mode string) string {
	for _, supported := range providers.SupportedModes() {
		if mode == supported {
			return mode
		}
	}
	return "unsupported"
}

func modelPointer(model string) *string {
	if model == "" {
		return nil
	}
	return &model
}
