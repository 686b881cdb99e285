package handlers

import (
	"net/http"

	"github.com/upb/ai-worker/services"
	"github.com/upb/ai-worker/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps pipeline errors to the HTTP error envelope
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	backendErr, ok := services.AsBackendError(err)
	if !ok {
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An internal error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
		return
	}

	status := backendErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if err := utils.WriteError(w, status, backendErr.Code, backendErr.Message, backendErr.Details); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("code", backendErr.Code),
		zap.Int("status", status),
		zap.Any("details", backendErr.Details),
	}
	switch {
	case services.IsDownstreamError(err):
		logger.Warn("downstream failure", append(fields, zap.Error(err))...)
	case services.IsConfigurationError(err):
		logger.Info("request rejected", fields...)
	default:
		logger.Debug("handled service error", fields...)
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	message := err.Error()
	details := map[string]interface{}{}
	if utils.IsValidationError(err) {
		message = utils.ValidationFailedMessage
		for field, reason := range utils.GetValidationFields(err) {
			details[field] = reason
		}
	}

	if err := utils.WriteBadRequest(w, message, details); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
