package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketmcp/marketmcp/agents/actions"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ToolsController turns protocol requests into envelopes. One lock is shared
// by every transport so tool calls never overlap.
type ToolsController struct {
	actions *actions.ToolActions
	mu      sync.Mutex
}

func NewToolsController(a *actions.ToolActions) *ToolsController {
	return &ToolsController{actions: a}
}

func (c *ToolsController) Actions() *actions.ToolActions {
	return c.actions
}

// Handle parses one request line and returns its envelope. It never fails.
func (c *ToolsController) Handle(ctx context.Context, line []byte) types.Response {
	var req types.Request
	if err := json.Unmarshal(line, &req); err != nil {
		logging.RequestLogger.Warn("unparsable request", zap.Int("bytes", len(line)), zap.Error(err))
		return errorResponse(fmt.Errorf("invalid request: %w", err))
	}

	switch req.Action {
	case types.ActionListTools:
		return c.ListTools()
	case types.ActionInvoke:
		return c.Invoke(ctx, req.Tool, req.Params)
	default:
		return errorResponse(types.ErrUnknownAction)
	}
}

func (c *ToolsController) ListTools() types.Response {
	return types.Response{OK: true, Result: types.ToolList{Tools: c.actions.Tools()}}
}

func (c *ToolsController) Invoke(ctx context.Context, tool string, params json.RawMessage) types.Response {
	var result any
	err := c.Run(ctx, tool, func(ctx context.Context) error {
		var err error
		result, err = c.actions.ExecuteAction(ctx, tool, params)
		return err
	})
	if err != nil {
		return errorResponse(err)
	}
	return types.Response{OK: true, Result: result}
}

// Run executes fn under the invocation lock with a fresh trace id. Panics
// come back as errors.
func (c *ToolsController) Run(ctx context.Context, tool string, fn func(ctx context.Context) error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	traceID := uuid.New().String()
	ctx = logging.WithTraceID(ctx, traceID)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logging.ErrorLogger.Error("tool panicked",
				zap.String("tool", tool), zap.String("trace_id", traceID), zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("internal error: %v", r)
		}

		fields := []zap.Field{
			zap.String("tool", tool),
			zap.String("trace_id", traceID),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Bool("ok", err == nil),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			if !expected(err) {
				logging.ErrorLogger.Error("tool failed", fields...)
			}
		}
		logging.RequestLogger.Info("tool invoked", fields...)
	}()

	return fn(ctx)
}

// ToolsWebSocket answers each text message with one envelope.
func (c *ToolsController) ToolsWebSocket(ctx context.Context, w *websocket.Conn) {
	defer w.Close(websocket.StatusInternalError, "internal error")

	for {
		typ, data, err := w.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				logging.ErrorLogger.Error("websocket read error", zap.Error(err))
			}
			return
		}

		var resp types.Response
		if typ != websocket.MessageText {
			resp = errorResponse(errors.New("unsupported data"))
		} else {
			resp = c.Handle(ctx, data)
		}

		out, err := jsonutils.Marshal(resp)
		if err != nil {
			out, _ = jsonutils.Marshal(errorResponse(err))
		}
		if err := w.Write(ctx, websocket.MessageText, out); err != nil {
			logging.ErrorLogger.Error("websocket write error", zap.Error(err))
			return
		}
	}
}

func errorResponse(err error) types.Response {
	return types.Response{OK: false, Error: err.Error()}
}

// expected errors are caller mistakes and remote failures, not server faults.
func expected(err error) bool {
	for _, target := range []error{
		types.ErrValidation, types.ErrDomainNotAllowed, types.ErrContentTooLarge,
		types.ErrHTTPStatus, types.ErrUnknownTool,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
