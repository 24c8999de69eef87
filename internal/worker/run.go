package worker

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"veoworker/internal/models"
	"veoworker/internal/pkg/errors"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/worker/processor"
	"veoworker/internal/worker/queue"
	"veoworker/internal/worker/util"
)

// Result is the structured outcome of one invocation.
type Result struct {
	StatusCode int            `json:"status_code"`
	Body       map[string]any `json:"body"`
}

// OK builds the 200 result for a finished scan.
func OK(sum *processor.Summary) Result {
	return Result{
		StatusCode: http.StatusOK,
		Body: map[string]any{
			"message":          sum.Message,
			"videos_processed": sum.Processed,
		},
	}
}

// ErrorResult builds the 500 result. Config and schema errors expose only
// their message.
func ErrorResult(err error) Result {
	return Result{
		StatusCode: http.StatusInternalServerError,
		Body:       map[string]any{"error": errors.PublicMessage(err)},
	}
}

// RunOnce executes one invocation and records it when a recorder is
// configured. It never panics.
func RunOnce(ctx context.Context, d Deps, trigger string) Result {
	runID := util.NewID("run")
	ctx = logger.ContextWithRunID(ctx, runID)
	log := d.logOrDefault().WithComponent("worker").FromContext(ctx)

	run := &models.Run{ID: runID, Trigger: trigger, StartedAt: d.now().UTC()}
	log.Info("run started", "trigger", trigger)

	sum, err := scan(ctx, d, log)

	var res Result
	if err != nil {
		log.LogError(ctx, "run failed", err, "code", string(errors.GetCode(err)))
		res = ErrorResult(err)
		run.Error = errors.PublicMessage(err)
	} else {
		res = OK(sum)
		run.VideosProcessed = sum.Processed
		run.Message = sum.Message
	}
	run.StatusCode = res.StatusCode
	run.FinishedAt = d.now().UTC()

	log.Info("run finished",
		"status_code", run.StatusCode,
		"videos_processed", run.VideosProcessed,
		"duration_ms", run.DurationMS(),
	)

	if d.Recorder != nil {
		if err := d.Recorder.Record(ctx, run); err != nil {
			log.Warn("failed to record run", "error", err.Error())
		}
	}
	return res
}

func scan(ctx context.Context, d Deps, log *logger.Logger) (sum *processor.Summary, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))
			sum, err = nil, errors.Newf(errors.CodeInternal, "panic: %v", rec)
		}
	}()

	if d.ConfigErr != nil {
		return nil, d.ConfigErr
	}
	if d.Scanner == nil {
		return nil, errors.New(errors.CodeInternal, "no scanner configured")
	}
	return d.Scanner.ProcessSheet(ctx)
}

// RunQueue pops triggers until ctx is canceled and runs one invocation per
// trigger.
func RunQueue(ctx context.Context, d Deps) error {
	log := d.logOrDefault().WithComponent("worker")
	if d.Queue == nil {
		return errors.New(errors.CodeConfig, "trigger queue not configured")
	}
	backoff := d.PopBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	log.Info("waiting for triggers")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		// Use a separate context with timeout for queue operations
		popCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		raw, err := d.Queue.Pop(popCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}

			log.Warn("queue pop error, retrying",
				"error", err.Error(),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		if raw == "" {
			continue
		}

		t, err := queue.DecodeTrigger(raw)
		if err != nil {
			log.Warn("undecodable trigger, running anyway", "error", err.Error())
			t = queue.Trigger{Source: "queue"}
		}

		res := RunOnce(ctx, d, t.Label())
		log.Info("trigger handled",
			"trigger", t.Label(),
			"status_code", res.StatusCode,
		)
	}
}
