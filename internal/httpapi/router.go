package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"veoworker/internal/httpapi/handlers"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/pkg/middleware"
	"veoworker/internal/worker"
)

type Deps struct {
	Worker   worker.Deps
	Runs     handlers.RunLister
	Triggers handlers.TriggerPusher
	Pool     *pgxpool.Pool
	RDB      *redis.Client

	CronSecret string
	// CronTimeout bounds the synchronous invocation route.
	CronTimeout time.Duration
	Log         *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	if d.CronTimeout <= 0 {
		d.CronTimeout = 2 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))

	h := handlers.New(handlers.Deps{
		Worker:     d.Worker,
		Runs:       d.Runs,
		Triggers:   d.Triggers,
		Pool:       d.Pool,
		RDB:        d.RDB,
		CronSecret: d.CronSecret,
		Log:        log,
	})

	// ---- HEALTH ----
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		// ---- CRON ----
		r.With(middleware.Timeout(d.CronTimeout)).Get("/cron/process-videos", h.ProcessVideos)

		// ---- TRIGGERS ----
		r.Post("/triggers", middleware.WrapHandler(log, h.PostTrigger))

		// ---- RUNS ----
		r.Get("/runs", middleware.WrapHandler(log, h.ListRuns))
	})

	return r
}
