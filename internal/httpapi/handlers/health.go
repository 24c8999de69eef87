package handlers

import (
	"context"
	"net/http"
	"time"

	"veoworker/internal/config"
	"veoworker/internal/httpkit"
)

// QueueDepth is implemented by trigger queues that can report their backlog.
type QueueDepth interface {
	Len(ctx context.Context) (int64, error)
}

// Health performs a health check of the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": "veoworker-api",
		"version": config.Version,
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(ctx)
		health["checks"] = checks

		for _, check := range checks {
			if check["status"] != "ok" {
				health["status"] = "degraded"
				log.Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, 200, health)
}

// deepHealthCheck checks the optional backing services that are configured.
func (h *Handler) deepHealthCheck(ctx context.Context) map[string]map[string]any {
	checks := make(map[string]map[string]any)

	if h.pool != nil {
		checks["postgres"] = h.checkPostgres(ctx)
	}
	if h.rdb != nil {
		checks["redis"] = h.checkRedis(ctx)
	}
	if q, ok := h.triggers.(QueueDepth); ok {
		checks["queue"] = checkQueue(ctx, q)
	}

	return checks
}

func (h *Handler) checkPostgres(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{
		"status": "ok",
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	} else {
		stats := h.pool.Stat()
		result["total_conns"] = stats.TotalConns()
		result["idle_conns"] = stats.IdleConns()
		result["acquired_conns"] = stats.AcquiredConns()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkRedis(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{
		"status": "ok",
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.rdb.Ping(checkCtx).Err(); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func checkQueue(ctx context.Context, q QueueDepth) map[string]any {
	result := map[string]any{
		"status": "ok",
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := q.Len(checkCtx)
	if err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
		return result
	}
	result["pending_triggers"] = n
	return result
}
