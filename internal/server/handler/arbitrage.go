package handler

import (
	"log/slog"
	"net/http"

	"github.com/arbisport/arbisport/internal/domain"
)

// ArbHandler serves recorded arbitrage opportunities.
type ArbHandler struct {
	history domain.ArbHistory
	logger  *slog.Logger
}

// NewArbHandler creates an ArbHandler over the given history reader.
func NewArbHandler(history domain.ArbHistory, logger *slog.Logger) *ArbHandler {
	return &ArbHandler{history: history, logger: logger}
}

// ListRecent returns the newest opportunities, most recent first.
// GET /api/arbitrage/recent?limit=50
func (h *ArbHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 500)

	records, err := h.history.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list arbitrage failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not list opportunities")
		return
	}
	if records == nil {
		records = []domain.ArbitrageRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": records,
	})
}
