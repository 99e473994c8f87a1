package controllers

import (
	"marketmcp/marketmcp/sources/psql/dao"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/logging"
	"net/http"

	"go.uber.org/zap"
)

type HealthController struct {
	service string
	tools   int
	index   *dao.SourceRecordDAO
}

// NewHealthController reports the tool count and, when index is non-nil, how
// many sources it holds.
func NewHealthController(service string, tools int, index *dao.SourceRecordDAO) *HealthController {
	return &HealthController{service: service, tools: tools, index: index}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "ok",
		"service": h.service,
		"tools":   h.tools,
	}
	if h.index != nil {
		n, err := h.index.CountSourceRecords(r.Context())
		if err != nil {
			logging.ErrorLogger.Error("count indexed sources", zap.Error(err))
			payload["indexed_sources"] = nil
		} else {
			payload["indexed_sources"] = n
		}
	}

	body, _ := jsonutils.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
