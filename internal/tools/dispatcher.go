// Package tools detects tool triggers in a question, runs the matching tools
// and records their results as a trace.
package tools

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/upb/ai-worker/internal/observability"
	"go.uber.org/zap"
)

// trigger maps a case-insensitive phrase to the tool it runs
type trigger struct {
	phrase string
	tool   string
}

// Checked in this order; each match appends one event.
var triggers = []trigger{
	{phrase: "list docs", tool: ToolListKBFiles},
	{phrase: "analyze system", tool: ToolSystemInfo},
}

// Dispatcher runs keyword-triggered tools.
type Dispatcher struct {
	fs      afero.Fs
	kbPath  string
	invoker Invoker
	metrics observability.Metrics
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. kbPath is listed by list_kb_files and
// invoker serves every remote tool.
func NewDispatcher(fs afero.Fs, kbPath string, invoker Invoker, metrics observability.Metrics, logger *zap.Logger) *Dispatcher {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Dispatcher{
		fs:      fs,
		kbPath:  kbPath,
		invoker: invoker,
		metrics: metrics,
		logger:  logger,
	}
}

// Dispatch runs every tool whose trigger phrase occurs in message. The first
// failing tool aborts dispatch and its error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) ([]TraceEvent, error) {
	lowered := strings.ToLower(message)
	trace := []TraceEvent{}

	for _, t := range triggers {
		if !strings.Contains(lowered, t.phrase) {
			continue
		}

		result, err := d.run(ctx, t.tool)
		if err != nil {
			d.metrics.RecordToolInvocation(ctx, t.tool, observability.OutcomeError)
			d.logger.Warn("Tool invocation failed",
				zap.String("tool", t.tool),
				zap.Error(err),
			)
			return nil, err
		}

		d.metrics.RecordToolInvocation(ctx, t.tool, observability.OutcomeSuccess)
		d.logger.Debug("Tool invoked", zap.String("tool", t.tool))
		trace = append(trace, TraceEvent{Tool: t.tool, Result: result})
	}

	return trace, nil
}

func (d *Dispatcher) run(ctx context.Context, tool string) (Result, error) {
	if tool == ToolListKBFiles {
		files, err := ListKBFiles(d.fs, d.kbPath)
		if err != nil {
			return nil, err
		}
		return &KBFilesResult{Files: files}, nil
	}

	raw, err := d.invoker.Invoke(ctx, tool, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	return NewResult(tool, raw), nil
}
