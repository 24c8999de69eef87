package handlers

import (
	"net/http"

	"veoworker/internal/httpkit"
	"veoworker/internal/pkg/errors"
	"veoworker/internal/worker/queue"
)

// PostTrigger enqueues the request body as an opaque trigger.
func (h *Handler) PostTrigger(w http.ResponseWriter, r *http.Request) error {
	if !h.authorized(r) {
		writeUnauthorized(w)
		return nil
	}
	if h.triggers == nil {
		return errors.Unavailable("trigger queue")
	}

	payload, err := httpkit.ReadPayload(r)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "triggers.read", "invalid trigger payload")
	}

	t := queue.NewTrigger("api", payload)
	raw, err := t.Encode()
	if err != nil {
		return errors.Wrap(err, "triggers.encode", "failed to encode trigger")
	}
	if err := h.triggers.Push(r.Context(), raw); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "triggers.push", "queue push failed")
	}

	h.log.FromContext(r.Context()).Info("trigger queued", "trigger_id", t.ID)
	httpkit.WriteJSON(w, http.StatusAccepted, map[string]any{
		"queued":     true,
		"trigger_id": t.ID,
	})
	return nil
}
