package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"veoworker/internal/httpkit"
	"veoworker/internal/models"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/worker"
)

// RunLister reads the run log.
type RunLister interface {
	List(ctx context.Context, limit int) ([]models.Run, error)
}

// TriggerPusher enqueues trigger payloads for the queue worker.
type TriggerPusher interface {
	Push(ctx context.Context, payload string) error
}

type Deps struct {
	Worker     worker.Deps
	Runs       RunLister
	Triggers   TriggerPusher
	Pool       *pgxpool.Pool
	RDB        *redis.Client
	CronSecret string
	Log        *logger.Logger
}

type Handler struct {
	worker     worker.Deps
	runs       RunLister
	triggers   TriggerPusher
	pool       *pgxpool.Pool
	rdb        *redis.Client
	cronSecret string
	log        *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		worker:     d.Worker,
		runs:       d.Runs,
		triggers:   d.Triggers,
		pool:       d.Pool,
		rdb:        d.RDB,
		cronSecret: d.CronSecret,
		log:        log,
	}
}

// authorized checks the bearer secret. An empty secret leaves the
// endpoints open.
func (h *Handler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return true
	}
	token := httpkit.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	httpkit.WriteJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
}
