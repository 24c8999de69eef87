package veo

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// PollState is the position of an operation in the local wait loop.
type PollState int

const (
	StateSubmitted PollState = iota
	StatePolling
	StateDone
	StateTimedOut
)

func (s PollState) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StatePolling:
		return "polling"
	case StateDone:
		return "done"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// RefreshFunc re-fetches an operation.
type RefreshFunc func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)

// Poller waits for an operation with a fixed interval and a total budget.
// With the defaults (10s, 60s) an operation is fetched at most 6 times.
// When the budget runs out the remote operation is left running.
type Poller struct {
	Interval time.Duration
	MaxWait  time.Duration

	// OnAttempt, when set, is called after each refresh.
	OnAttempt func(attempt int, waited time.Duration, op *genai.GenerateVideosOperation, err error)

	wait func(ctx context.Context, d time.Duration) error
}

func NewPoller(interval, maxWait time.Duration) *Poller {
	return &Poller{Interval: interval, MaxWait: maxWait, wait: sleepCtx}
}

// MaxAttempts is the number of refreshes the budget allows.
func (p *Poller) MaxAttempts() int {
	if p.Interval <= 0 {
		return 0
	}
	return int((p.MaxWait + p.Interval - 1) / p.Interval)
}

// Run drives op from submitted to done or timed-out. API errors from a
// refresh consume an attempt and the loop keeps going; any other refresh
// error, or ctx cancellation, stops the loop and is returned.
func (p *Poller) Run(ctx context.Context, op *genai.GenerateVideosOperation, refresh RefreshFunc) (*genai.GenerateVideosOperation, PollState, error) {
	state := StateSubmitted
	if op.Done {
		return op, StateDone, nil
	}
	if p.Interval <= 0 {
		return op, StateTimedOut, nil
	}

	wait := p.wait
	if wait == nil {
		wait = sleepCtx
	}

	var waited time.Duration
	attempt := 0
	for !op.Done && waited < p.MaxWait {
		state = StatePolling

		if err := wait(ctx, p.Interval); err != nil {
			return op, state, err
		}
		waited += p.Interval
		attempt++

		next, err := refresh(ctx, op)
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, waited, next, err)
		}
		if err != nil {
			if isAPIError(err) && ctx.Err() == nil {
				continue
			}
			return op, state, err
		}
		if next != nil {
			op = next
		}
	}

	if op.Done {
		return op, StateDone, nil
	}
	return op, StateTimedOut, nil
}

// isAPIError reports whether err is an error status answered by the API,
// as opposed to a transport failure.
func isAPIError(err error) bool {
	var apiErr genai.APIError
	return errors.As(err, &apiErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
