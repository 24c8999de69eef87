package worker

import (
	"context"
	"time"

	"veoworker/internal/models"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/worker/processor"
)

// Scanner runs one pass over the sheet.
type Scanner interface {
	ProcessSheet(ctx context.Context) (*processor.Summary, error)
}

// RunRecorder persists invocation summaries.
type RunRecorder interface {
	Record(ctx context.Context, run *models.Run) error
}

// TriggerSource yields raw trigger payloads. An empty payload with a nil
// error means nothing arrived.
type TriggerSource interface {
	Pop(ctx context.Context) (string, error)
}

type Deps struct {
	// ConfigErr, when set, fails every invocation with its message. It
	// keeps a misconfigured API process answering with a 500 body.
	ConfigErr error
	Scanner   Scanner
	// Recorder is optional; nil disables the run log.
	Recorder RunRecorder
	// Queue is only used by RunQueue.
	Queue      TriggerSource
	PopBackoff time.Duration
	Log        *logger.Logger
	Now        func() time.Time
}

func (d Deps) logOrDefault() *logger.Logger {
	if d.Log == nil {
		return logger.NewDefault()
	}
	return d.Log
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
