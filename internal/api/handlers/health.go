package handlers

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// Check returns liveness status
func (h *Handlers) Check(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"app":     h.cfg.App.Name,
		"version": h.cfg.App.Version,
		"uptime":  time.Since(startTime).Round(time.Second).String(),
	})
}

// Ready returns readiness status including dependency health
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"engine": "ok"}
	ready := true

	if h.redis != nil {
		if err := h.redis.Client().Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "unavailable: " + err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	h.respondJSON(w, status, map[string]any{
		"ready":  ready,
		"checks": checks,
	})
}
