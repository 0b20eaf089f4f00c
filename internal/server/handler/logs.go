package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arbisport/arbisport/internal/domain"
)

// LogsHandler serves the durable scan log.
type LogsHandler struct {
	logs   domain.ScanLog
	logger *slog.Logger
}

// NewLogsHandler creates a LogsHandler over the given log reader.
func NewLogsHandler(logs domain.ScanLog, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{logs: logs, logger: logger}
}

// List returns scan-log entries after since_id, oldest first, so clients can
// tail the log.
// GET /api/logs?since_id=0&limit=100
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	var sinceID int64
	if v := r.URL.Query().Get("since_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "since_id must be a non-negative integer")
			return
		}
		sinceID = n
	}
	limit := queryInt(r, "limit", 100, 1000)

	entries, err := h.logs.List(r.Context(), sinceID, limit)
	if err != nil {
		h.logger.Error("list scan logs failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not list logs")
		return
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}
