// Package actions holds the tool dispatch table shared by every transport.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"marketmcp/marketmcp/config"
	"marketmcp/marketmcp/services/fetcher"
	"marketmcp/marketmcp/sources/psql/dao"
	httputils "marketmcp/marketmcp/utils/http"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"
)

type actionFn func(ctx context.Context, params json.RawMessage) (any, error)

// Mirror receives a copy of every saved file.
type Mirror interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Deps are optional collaborators. The zero value fetches with a default
// client, reads config from $APP_CONFIG, and skips the mirror and index.
type Deps struct {
	Client     httputils.Doer
	ConfigPath string
	Mirror     Mirror
	Index      *dao.SourceRecordDAO
}

// ToolActions manages the five tools and the order they are listed in.
type ToolActions struct {
	fnMaps  map[string]actionFn
	order   []string
	fetcher *fetcher.Fetcher
	deps    Deps
}

func NewToolActions(deps Deps) *ToolActions {
	a := &ToolActions{
		fnMaps:  make(map[string]actionFn),
		fetcher: fetcher.NewFetcher(deps.Client),
		deps:    deps,
	}
	a.register(types.ToolFetchURL, bind(a.FetchURL))
	a.register(types.ToolExtractMainText, bind(a.ExtractMainText))
	a.register(types.ToolExtractEvidenceQuotes, bind(a.ExtractEvidenceQuotes))
	a.register(types.ToolSaveSources, bind(a.SaveSources))
	a.register(types.ToolSaveReport, bind(a.SaveReport))
	return a
}

func (a *ToolActions) register(name string, fn actionFn) {
	a.fnMaps[name] = fn
	a.order = append(a.order, name)
}

// Tools lists tool names in registration order.
func (a *ToolActions) Tools() []string {
	return append([]string(nil), a.order...)
}

// Index is the source index, or nil when none is configured.
func (a *ToolActions) Index() *dao.SourceRecordDAO {
	return a.deps.Index
}

// ExecuteAction decodes params for tool and runs it.
func (a *ToolActions) ExecuteAction(ctx context.Context, tool string, params json.RawMessage) (any, error) {
	fn, ok := a.fnMaps[tool]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownTool, tool)
	}
	defer logging.LogDuration(ctx, "tool:"+tool)()
	return fn(ctx, params)
}

// bind adapts a typed operation to the raw-params table.
func bind[P, R any](op func(context.Context, P) (R, error)) actionFn {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params P
		if err := jsonutils.Decode(raw, &params); err != nil {
			return nil, fmt.Errorf("%w: params: %v", types.ErrValidation, err)
		}
		return op(ctx, params)
	}
}

// loadConfig reads the config file on every call so edits apply to the next request.
func (a *ToolActions) loadConfig() (config.Config, error) {
	return config.LoadConfig(a.deps.ConfigPath)
}
