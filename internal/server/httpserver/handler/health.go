package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// handleHealth handles GET /health. It answers as long as the process runs.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, NewResponse("", h.status("healthy", "")))
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			resp := NewErrorResponse("", "NOT_READY", "server not ready")
			resp.Data = h.status("not_ready", err.Error())
			h.writeJSON(w, r, http.StatusServiceUnavailable, resp)
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, NewResponse("", h.status("ready", "")))
}

func (h *Handler) status(s, reason string) HealthStatus {
	return HealthStatus{
		Status:  s,
		Version: buildinfo.Get().Version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Time:    time.Now().UTC().Format(time.RFC3339),
		Reason:  reason,
	}
}
