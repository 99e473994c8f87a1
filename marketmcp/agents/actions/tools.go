package actions

import (
	"context"
	"fmt"
	"marketmcp/marketmcp/services/evidence"
	"marketmcp/marketmcp/services/extractor"
	"marketmcp/marketmcp/sources/psql/models"
	"marketmcp/marketmcp/sources/storage"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"
	"strings"

	"go.uber.org/zap"
)

func (a *ToolActions) FetchURL(ctx context.Context, params types.FetchURLParams) (types.FetchResult, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return types.FetchResult{}, err
	}
	return a.fetcher.FetchURL(ctx, strings.TrimSpace(params.URL), cfg.HTTP)
}

func (a *ToolActions) ExtractMainText(ctx context.Context, params types.ExtractMainTextParams) (types.ExtractResult, error) {
	if params.HTML == "" {
		return types.ExtractResult{}, fmt.Errorf("%w: html: field required", types.ErrValidation)
	}
	return extractor.ExtractMainText(ctx, params.HTML, params.BaseURL), nil
}

// ExtractEvidenceQuotes always returns a non-nil slice so it encodes as [].
func (a *ToolActions) ExtractEvidenceQuotes(ctx context.Context, params types.EvidenceQuotesParams) ([]types.EvidenceExcerpt, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	defer logging.LogDuration(ctx, "ExtractEvidenceQuotes")()
	return evidence.Locate(params.Text, params.Claims, cfg.Excerpts.MaxChars, cfg.Excerpts.DefaultPosition), nil
}

// SaveSources validates every record before anything is written.
func (a *ToolActions) SaveSources(ctx context.Context, params types.SaveSourcesParams) (types.PathResult, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return types.PathResult{}, err
	}

	records := make([]types.SourceRecord, 0, len(params.Records))
	for i, p := range params.Records {
		rec, err := p.Record(fmt.Sprintf("records[%d]", i))
		if err != nil {
			return types.PathResult{}, err
		}
		records = append(records, rec)
	}

	path, data, err := storage.SaveSources(records, storage.SourcesPath(params.OutputPath, cfg.Paths))
	if err != nil {
		return types.PathResult{}, err
	}

	a.mirror(ctx, storage.SourcesPrefix, path, data, "application/json")
	a.index(ctx, path, records)
	return types.PathResult{Path: path}, nil
}

func (a *ToolActions) SaveReport(ctx context.Context, params types.SaveReportParams) (types.PathResult, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return types.PathResult{}, err
	}

	path, err := storage.SaveReport(params.MarkdownText, storage.ReportPath(params.OutputPath, cfg.Paths))
	if err != nil {
		return types.PathResult{}, err
	}

	a.mirror(ctx, storage.ReportsPrefix, path, []byte(params.MarkdownText), "text/markdown; charset=utf-8")
	return types.PathResult{Path: path}, nil
}

// mirror failures are logged only; the local file is what callers rely on.
func (a *ToolActions) mirror(ctx context.Context, prefix, path string, data []byte, contentType string) {
	if a.deps.Mirror == nil {
		return
	}
	key := storage.MirrorKey(prefix, path)
	if _, err := a.deps.Mirror.Upload(ctx, key, data, contentType); err != nil {
		logging.ErrorLogger.Error("mirror upload failed",
			zap.String("key", key), zap.String("trace_id", logging.TraceID(ctx)), zap.Error(err))
		return
	}
	logging.AppLogger.Info("mirrored", zap.String("key", key))
}

// index failures are logged only.
func (a *ToolActions) index(ctx context.Context, path string, records []types.SourceRecord) {
	if a.deps.Index == nil {
		return
	}
	rows := make([]models.SourceRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.SourceRecord{
			URL:           r.URL,
			FinalURL:      r.FinalURL,
			FetchedAt:     r.FetchedAt,
			Title:         r.Title,
			Publisher:     r.Publisher,
			PublishedDate: r.PublishedDate,
			Category:      r.Category,
			Confidence:    r.Confidence,
			SavedPath:     path,
		})
	}
	if err := a.deps.Index.UpsertSourceRecords(ctx, dedupeByURL(rows)); err != nil {
		logging.ErrorLogger.Error("source index upsert failed",
			zap.String("path", path), zap.String("trace_id", logging.TraceID(ctx)), zap.Error(err))
	}
}

// dedupeByURL keeps the last row per URL; one upsert statement cannot touch a row twice.
func dedupeByURL(rows []models.SourceRecord) []models.SourceRecord {
	pos := make(map[string]int, len(rows))
	out := make([]models.SourceRecord, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.URL]; ok {
			out[i] = r
			continue
		}
		pos[r.URL] = len(out)
		out = append(out, r)
	}
	return out
}
