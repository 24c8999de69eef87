package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"veoworker/internal/httpkit"
	"veoworker/internal/pkg/errors"
	"veoworker/internal/repositories"
)

// ListRuns returns the most recent run records.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) error {
	if !h.authorized(r) {
		writeUnauthorized(w)
		return nil
	}
	if h.runs == nil {
		return errors.Unavailable("run log")
	}

	limit := repositories.DefaultRunLimit
	if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v <= 0 {
			return errors.New(errors.CodeBadRequest, "limit must be a positive integer").
				WithField("limit", limitStr)
		}
		limit = repositories.ClampLimit(v)
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		return errors.Wrap(err, "runs.list", "db query failed")
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
	return nil
}
