package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"veoworker/internal/adapters/sheets"
	"veoworker/internal/config"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/repositories"
	"veoworker/internal/worker"
	"veoworker/internal/worker/processor"
	"veoworker/internal/worker/queue"
	"veoworker/internal/worker/veo"
)

func main() {
	mode := flag.String("mode", "once", "once: run a single invocation and exit; queue: consume Redis triggers")
	flag.Parse()

	_ = godotenv.Load()

	base := logger.NewDefault()
	log := base.WithComponent("cmd.worker")

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err.Error())
		printResult(worker.ErrorResult(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := sheets.NewService(ctx, cfg.ServiceAccountEmail, cfg.PrivateKey)
	if err != nil {
		log.LogFatal("failed to build sheets service", err)
	}

	generator, err := veo.NewClient(ctx, veo.Options{
		BaseURL:      cfg.VeoBaseURL,
		APIVersion:   cfg.VeoAPIVersion,
		APIKey:       cfg.APIKey,
		Model:        cfg.VeoModel,
		PollInterval: cfg.PollInterval,
		MaxWait:      cfg.MaxWait,
		Log:          base,
	})
	if err != nil {
		log.LogFatal("failed to build veo client", err)
	}

	deps := worker.Deps{
		Scanner: processor.New(processor.Deps{
			Sheet:         sheets.NewClient(srv, cfg.SheetID, cfg.SheetName, cfg.ReadRange()),
			Generator:     generator,
			MaxJobsPerRun: cfg.MaxJobsPerRun,
			Log:           base,
		}),
		Log: base,
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.LogFatal("failed to connect to PostgreSQL", err)
		}
		defer pool.Close()

		if err := repositories.Migrate(ctx, pool); err != nil {
			log.Warn("run log disabled, migrations failed", "error", err.Error())
		} else {
			deps.Recorder = repositories.NewRunRepository(pool)
		}
	}

	switch *mode {
	case "once":
		res := worker.RunOnce(ctx, deps, "cli")
		printResult(res)
		if res.StatusCode != http.StatusOK {
			os.Exit(1)
		}

	case "queue":
		if cfg.RedisAddr == "" {
			log.Error("missing required environment variable", "key", "REDIS_ADDR")
			os.Exit(1)
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		deps.Queue = queue.NewRedisQueue(rdb, cfg.QueueName)

		log.Info("veo worker started", "queue", cfg.QueueName)
		if err := worker.RunQueue(ctx, deps); err != nil && ctx.Err() == nil {
			log.LogFatal("worker stopped", err)
		}

	default:
		log.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}
}

func printResult(res worker.Result) {
	b, err := json.Marshal(res)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(b))
}
