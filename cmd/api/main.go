package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"veoworker/internal/adapters/sheets"
	"veoworker/internal/config"
	"veoworker/internal/httpapi"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/pkg/shutdown"
	"veoworker/internal/repositories"
	"veoworker/internal/worker"
	"veoworker/internal/worker/processor"
	"veoworker/internal/worker/queue"
	"veoworker/internal/worker/veo"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	base := logger.NewDefault()
	log := base.WithComponent("cmd.api")

	log.Info("starting veoworker API",
		"version", config.Version,
	)

	ctx := context.Background()

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(base, 30*time.Second)

	// A configuration error keeps the server up; every invocation then
	// answers with the CONFIG_ERROR body.
	cfg, cfgErr := config.Load()
	workerDeps := worker.Deps{ConfigErr: cfgErr, Log: base}
	if cfgErr != nil {
		log.Error("invalid configuration, invocations will fail", "error", cfgErr.Error())
	} else {
		scanner, err := buildScanner(ctx, cfg, base)
		if err != nil {
			log.LogFatal("failed to build scanner", err)
		}
		workerDeps.Scanner = scanner
	}

	deps := httpapi.Deps{
		Worker:      workerDeps,
		CronSecret:  cfg.CronSecret,
		CronTimeout: cfg.MaxWait + 60*time.Second,
		Log:         base,
	}
	if cfg.CronSecret == "" {
		log.Warn("CRON_SECRET not set, endpoints are unauthenticated")
	}

	// Connect to PostgreSQL (optional run log)
	if cfg.DatabaseURL != "" {
		log.Info("connecting to PostgreSQL")
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.LogFatal("failed to connect to PostgreSQL", err)
		}
		shutdownMgr.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})

		if err := pool.Ping(ctx); err != nil {
			log.LogFatal("failed to ping PostgreSQL", err)
		}
		if err := repositories.Migrate(ctx, pool); err != nil {
			log.LogFatal("failed to migrate run log", err)
		}
		log.Info("PostgreSQL connected")

		runs := repositories.NewRunRepository(pool)
		deps.Pool = pool
		deps.Runs = runs
		deps.Worker.Recorder = runs
	}

	// Connect to Redis (optional trigger queue)
	if cfg.RedisAddr != "" {
		log.Info("connecting to Redis")
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		shutdownMgr.Register("redis", func(ctx context.Context) error {
			return rdb.Close()
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.LogFatal("failed to ping Redis", err)
		}
		log.Info("Redis connected", "queue", cfg.QueueName)

		deps.RDB = rdb
		deps.Triggers = queue.NewRedisQueue(rdb, cfg.QueueName)
	}

	router := httpapi.NewRouter(deps)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: deps.CronTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Register server shutdown last so it drains first
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", cfg.HTTPPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	if err := shutdownMgr.Wait(); err != nil {
		log.Warn("shutdown finished with errors", "error", err.Error())
	}
}

func buildScanner(ctx context.Context, cfg *config.Config, log *logger.Logger) (*processor.Processor, error) {
	srv, err := sheets.NewService(ctx, cfg.ServiceAccountEmail, cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	generator, err := veo.NewClient(ctx, veo.Options{
		BaseURL:      cfg.VeoBaseURL,
		APIVersion:   cfg.VeoAPIVersion,
		APIKey:       cfg.APIKey,
		Model:        cfg.VeoModel,
		PollInterval: cfg.PollInterval,
		MaxWait:      cfg.MaxWait,
		Log:          log,
	})
	if err != nil {
		return nil, err
	}
	return processor.New(processor.Deps{
		Sheet:         sheets.NewClient(srv, cfg.SheetID, cfg.SheetName, cfg.ReadRange()),
		Generator:     generator,
		MaxJobsPerRun: cfg.MaxJobsPerRun,
		Log:           log,
	}), nil
}
