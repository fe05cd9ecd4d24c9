package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/tools"
)

// Registry is the static set of tools the server exposes, keyed by name.
// It is built once at startup and read-only afterwards.
type Registry struct {
	defs   map[string]tools.Definition
	order  []string
	logger *common.Logger
}

// NewRegistry indexes defs by name. Later duplicates are skipped with a warning.
func NewRegistry(defs []tools.Definition, logger *common.Logger) *Registry {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := &Registry{
		defs:   make(map[string]tools.Definition, len(defs)),
		order:  make([]string, 0, len(defs)),
		logger: logger,
	}
	for _, d := range defs {
		if _, dup := r.defs[d.Name()]; dup {
			logger.Warn().Str("name", d.Name()).Msg("skipping duplicate tool definition")
			continue
		}
		r.defs[d.Name()] = d
		r.order = append(r.order, d.Name())
	}
	return r
}

// Tools returns the tool schemas in registration order.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name].Tool)
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Dispatch looks up, validates and runs the named tool. It never returns
// nil: failures of any kind come back as an error envelope with IsError set.
func (r *Registry) Dispatch(ctx context.Context, name string, args any) *mcp.CallToolResult {
	id := uuid.NewString()
	ctx = common.WithCorrelationID(ctx, id)
	logger := r.logger.WithCorrelationId(id)
	start := time.Now()

	value, err := r.run(ctx, name, args)
	elapsed := time.Since(start)

	if err != nil {
		failure := toFailure(err)
		event := logger.Warn()
		if failure.Code == apperrors.KindUnknown.Code() {
			event = logger.Error()
		}
		event = event.Str("tool", name).
			Str("code", failure.Code).
			Bool("recoverable", failure.Recoverable).
			Dur("duration", elapsed).
			Str("error", failure.Error)
		if failure.Code != codeUnknownTool {
			event = event.Str("hint", apperrors.FriendlyMessage(err))
		}
		event.Msg("tool call failed")
		return failureResult(failure)
	}

	logger.Info().Str("tool", name).Dur("duration", elapsed).Msg("tool call succeeded")
	res, err := successResult(value)
	if err != nil {
		logger.Error().Str("tool", name).Str("error", err.Error()).Msg("failed to encode tool result")
		return failureResult(apperrors.ToFailure(err))
	}
	return res
}

func (r *Registry) run(ctx context.Context, name string, args any) (value any, err error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, unknownTool(name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = apperrors.Unknown(fmt.Errorf("tool %s panicked: %v", name, rec))
		}
	}()

	call, err := def.Bind(args)
	if err != nil {
		return nil, err
	}
	return call(ctx)
}

// codeUnknownTool is reported for names absent from the registry.
const codeUnknownTool = "UNKNOWN_TOOL"

type errUnknownTool struct{ name string }

func (e errUnknownTool) Error() string { return "Unknown tool: " + e.name }

func unknownTool(name string) error { return errUnknownTool{name: name} }

func toFailure(err error) apperrors.Failure {
	var unknown errUnknownTool
	if errors.As(err, &unknown) {
		return apperrors.Failure{Error: unknown.Error(), Code: codeUnknownTool}
	}
	return apperrors.ToFailure(err)
}
