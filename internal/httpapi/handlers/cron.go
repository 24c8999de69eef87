package handlers

import (
	"net/http"

	"veoworker/internal/httpkit"
	"veoworker/internal/worker"
)

// ProcessVideos runs one invocation synchronously and writes its result.
func (h *Handler) ProcessVideos(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.log.FromContext(r.Context()).Warn("cron call rejected", "remote_addr", r.RemoteAddr)
		writeUnauthorized(w)
		return
	}

	res := worker.RunOnce(r.Context(), h.worker, "cron")
	httpkit.WriteJSON(w, res.StatusCode, res.Body)
}
