package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/scan"
)

// ScanHandler exposes the scheduler and rescan service over HTTP. baseCtx is
// the application lifetime context; the continuous loop started via the API
// must outlive the request that started it.
type ScanHandler struct {
	sched   *scan.Scheduler
	rescan  *scan.RescanService
	config  func() domain.ScanConfig
	baseCtx context.Context
	logger  *slog.Logger
}

// NewScanHandler creates a ScanHandler. config returns the current scan
// configuration for each operation, so config reloads take effect without a
// server restart.
func NewScanHandler(
	sched *scan.Scheduler,
	rescan *scan.RescanService,
	config func() domain.ScanConfig,
	baseCtx context.Context,
	logger *slog.Logger,
) *ScanHandler {
	return &ScanHandler{
		sched:   sched,
		rescan:  rescan,
		config:  config,
		baseCtx: baseCtx,
		logger:  logger,
	}
}

// Start launches the continuous scan loop.
// POST /api/scan/start
func (h *ScanHandler) Start(w http.ResponseWriter, r *http.Request) {
	err := h.sched.Start(h.baseCtx, h.config())
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, "scan already running")
	case errors.Is(err, domain.ErrInvalidConfig):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, h.sched.Status())
	}
}

// Stop halts the continuous scan loop.
// POST /api/scan/stop
func (h *ScanHandler) Stop(w http.ResponseWriter, r *http.Request) {
	err := h.sched.Stop(r.Context())
	switch {
	case errors.Is(err, domain.ErrNotRunning):
		writeError(w, http.StatusConflict, "scan not running")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, h.sched.Status())
	}
}

// Snapshot runs a single pass synchronously and returns its counters.
// POST /api/scan/snapshot
func (h *ScanHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	counters, err := h.sched.RunSnapshot(r.Context(), h.config())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

// Status reports the scheduler lifecycle and last-pass counters.
// GET /api/scan/status
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.Status())
}

// rescanRequest is the POST body for Rescan.
type rescanRequest struct {
	SportKey  string `json:"sport_key"`
	EventID   string `json:"event_id"`
	MarketKey string `json:"market_key"`
}

// Rescan re-evaluates one event+market on demand.
// POST /api/rescan
func (h *ScanHandler) Rescan(w http.ResponseWriter, r *http.Request) {
	var req rescanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SportKey == "" || req.EventID == "" || req.MarketKey == "" {
		writeError(w, http.StatusBadRequest, "sport_key, event_id, and market_key are required")
		return
	}

	result, err := h.rescan.Rescan(r.Context(), h.config(), req.SportKey, req.EventID, req.MarketKey)
	if err != nil {
		h.logger.Warn("rescan failed",
			slog.String("event_id", req.EventID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
