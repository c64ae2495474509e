package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/widgetexport/internal/app"
	"github.com/ayusman/widgetexport/internal/store"
)

// DefaultHistoryLimit is used when the request names no limit.
const DefaultHistoryLimit = 50

// HistorySource lists recorded export runs.
type HistorySource interface {
	History(limit int) ([]*store.Run, error)
}

// HistoryHandler serves GET /api/history.
type HistoryHandler struct {
	source HistorySource
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s HistorySource) *HistoryHandler {
	return &HistoryHandler{source: s}
}

type runResponse struct {
	ID          string `json:"id"`
	PluginPath  string `json:"pluginPath"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	OutputBytes int    `json:"outputBytes"`
	DurationMs  int64  `json:"durationMs"`
	CreatedAt   string `json:"createdAt"`
}

type historyResponse struct {
	Runs []runResponse `json:"runs"`
}

func toRunResponse(r *store.Run) runResponse {
	return runResponse{
		ID:          r.ID,
		PluginPath:  r.PluginPath,
		Status:      string(r.Status),
		Error:       r.Error,
		OutputBytes: r.OutputBytes,
		DurationMs:  r.Duration.Milliseconds(),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP lists the most recent runs.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.source.History(limit)
	if err != nil {
		if errors.Is(err, app.ErrHistoryDisabled) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	response := historyResponse{Runs: make([]runResponse, 0, len(runs))}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}
	writeJSON(w, http.StatusOK, response)
}
