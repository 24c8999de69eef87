package veo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"veoworker/internal/pkg/logger"
	"veoworker/internal/ports"
)

const (
	AspectLandscape = "16:9"
	AspectPortrait  = "9:16"

	durationSeconds  = 8
	resolution       = "720p"
	personGeneration = "allow_adult"
)

type Options struct {
	// BaseURL and APIVersion override the Gemini API endpoint; empty
	// values keep the SDK defaults.
	BaseURL      string
	APIVersion   string
	APIKey       string
	Model        string
	PollInterval time.Duration
	MaxWait      time.Duration
	HTTPClient   *http.Client
	Log          *logger.Logger
}

// Client implements ports.VideoGenerator on the Gemini API through the
// genai SDK.
type Client struct {
	genai  *genai.Client
	model  string
	poller *Poller
	log    *logger.Logger
}

func NewClient(ctx context.Context, o Options) (*Client, error) {
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	log := o.Log
	if log == nil {
		log = logger.NewDefault()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     o.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    o.BaseURL,
			APIVersion: o.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("veo: create genai client: %w", err)
	}

	return &Client{
		genai:  gc,
		model:  o.Model,
		poller: NewPoller(o.PollInterval, o.MaxWait),
		log:    log.WithComponent("veo"),
	}, nil
}

// NormalizeAspectRatio keeps "16:9" and "9:16"; everything else becomes "9:16".
func NormalizeAspectRatio(format string) string {
	if format == AspectLandscape || format == AspectPortrait {
		return format
	}
	return AspectPortrait
}

// Generate submits one 8 second 720p video and waits for it within the
// poll budget. Transport and API errors are logged and reported as Empty;
// an operation finished with an error, or a canceled ctx, is a Failure.
func (c *Client) Generate(ctx context.Context, prompt, format string) ports.Outcome {
	log := c.log.FromContext(ctx)
	aspect := NormalizeAspectRatio(format)

	log.Info("submitting video generation",
		"model", c.model,
		"aspect_ratio", aspect,
		"prompt", truncate(prompt, 50),
	)

	op, err := c.Submit(ctx, prompt, aspect)
	if err != nil {
		if ctx.Err() != nil {
			return ports.Failure(ctx.Err().Error())
		}
		log.Error("veo submit failed", "error", err.Error())
		return ports.Empty()
	}
	log.Info("veo operation started", "operation", op.Name)

	poller := *c.poller
	poller.OnAttempt = func(attempt int, waited time.Duration, _ *genai.GenerateVideosOperation, err error) {
		if err != nil {
			log.Warn("veo poll failed", "attempt", attempt, "max_attempts", poller.MaxAttempts(), "error", err.Error())
			return
		}
		log.Debug("veo poll", "attempt", attempt, "max_attempts", poller.MaxAttempts(), "waited_ms", waited.Milliseconds())
	}

	op, state, err := poller.Run(ctx, op, c.GetOperation)
	if err != nil {
		if ctx.Err() != nil {
			return ports.Failure(ctx.Err().Error())
		}
		log.Error("veo poll aborted", "operation", op.Name, "error", err.Error())
		return ports.Empty()
	}

	if state == StateTimedOut {
		log.Warn("veo timeout, video not ready", "operation", op.Name, "max_wait", c.poller.MaxWait.String())
		return ports.Empty()
	}

	if msg, failed := OperationError(op); failed {
		log.Error("veo operation failed", "operation", op.Name, "message", msg)
		return ports.Failure(msg)
	}

	uri := VideoURI(op)
	if uri == "" {
		if reasons := FilteredReasons(op); len(reasons) > 0 {
			log.Warn("veo result blocked by safety filter", "operation", op.Name, "reason", reasons[0])
		} else {
			log.Error("veo operation done without video", "operation", op.Name)
		}
		return ports.Empty()
	}

	log.Info("veo video generated", "operation", op.Name, "uri", uri)
	return ports.Success(uri)
}

// Submit starts a generation and returns the pending operation.
func (c *Client) Submit(ctx context.Context, prompt, aspectRatio string) (*genai.GenerateVideosOperation, error) {
	op, err := c.genai.Models.GenerateVideos(ctx, c.model, prompt, nil, &genai.GenerateVideosConfig{
		AspectRatio:      aspectRatio,
		NumberOfVideos:   1,
		DurationSeconds:  genai.Ptr[int32](durationSeconds),
		PersonGeneration: personGeneration,
		Resolution:       resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("veo submit: %w", err)
	}
	if op == nil || (op.Name == "" && !op.Done) {
		return nil, fmt.Errorf("veo submit: response has no operation name")
	}
	return op, nil
}

// GetOperation fetches the current state of an operation.
func (c *Client) GetOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return c.genai.Operations.GetVideosOperation(ctx, op, nil)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
