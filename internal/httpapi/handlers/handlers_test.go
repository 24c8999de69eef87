package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veoworker/internal/config"
	"veoworker/internal/models"
	apperrors "veoworker/internal/pkg/errors"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/pkg/middleware"
	"veoworker/internal/worker"
	"veoworker/internal/worker/processor"
	"veoworker/internal/worker/queue"
)

type stubScanner struct {
	sum *processor.Summary
	err error
}

func (s stubScanner) ProcessSheet(context.Context) (*processor.Summary, error) {
	return s.sum, s.err
}

type stubRuns struct {
	runs  []models.Run
	err   error
	limit int
}

func (s *stubRuns) List(_ context.Context, limit int) ([]models.Run, error) {
	s.limit = limit
	return s.runs, s.err
}

type stubPusher struct {
	pushed []string
	err    error
}

func (s *stubPusher) Push(_ context.Context, payload string) error {
	if s.err != nil {
		return s.err
	}
	s.pushed = append(s.pushed, payload)
	return nil
}

type queuePusher struct {
	stubPusher
	depth int64
	err   error
}

func (q *queuePusher) Len(context.Context) (int64, error) {
	return q.depth, q.err
}

func newHandler(d Deps) *Handler {
	d.Log = logger.Discard()
	d.Worker.Log = logger.Discard()
	return New(d)
}

func wrap(h *Handler, fn middleware.ErrorHandlerFunc) http.HandlerFunc {
	return middleware.WrapHandler(h.log, fn)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProcessVideos(t *testing.T) {
	h := newHandler(Deps{Worker: worker.Deps{
		Scanner: stubScanner{sum: &processor.Summary{Processed: 1, Message: "1 vidéo(s) traitée(s)"}},
	}})

	rec := httptest.NewRecorder()
	h.ProcessVideos(rec, httptest.NewRequest("GET", "/api/cron/process-videos", nil))

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"message":"1 vidéo(s) traitée(s)","videos_processed":1}`, rec.Body.String())
}

func TestProcessVideos_SchemaError(t *testing.T) {
	h := newHandler(Deps{Worker: worker.Deps{
		Scanner: stubScanner{err: apperrors.MissingColumn("Type")},
	}})

	rec := httptest.NewRecorder()
	h.ProcessVideos(rec, httptest.NewRequest("GET", "/api/cron/process-videos", nil))

	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error":"Colonne manquante: Type"}`, rec.Body.String())
}

func TestProcessVideos_ConfigError(t *testing.T) {
	h := newHandler(Deps{Worker: worker.Deps{
		ConfigErr: apperrors.MissingEnv("GOOGLE_SHEET_ID", "GOOGLE_API_KEY"),
	}})

	rec := httptest.NewRecorder()
	h.ProcessVideos(rec, httptest.NewRequest("GET", "/api/cron/process-videos", nil))

	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error":"Variables environnement manquantes: GOOGLE_SHEET_ID, GOOGLE_API_KEY"}`, rec.Body.String())
}

func TestProcessVideos_Secret(t *testing.T) {
	h := newHandler(Deps{
		CronSecret: "s3cret",
		Worker:     worker.Deps{Scanner: stubScanner{sum: &processor.Summary{Message: "Aucune vidéo en attente"}}},
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", 401},
		{"wrong", "Bearer nope", 401},
		{"valid", "Bearer s3cret", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/cron/process-videos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ProcessVideos(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == 401 {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestPostTrigger(t *testing.T) {
	pusher := &stubPusher{}
	h := newHandler(Deps{Triggers: pusher})

	req := httptest.NewRequest("POST", "/api/triggers", strings.NewReader(`{"reason":"manual"}`))
	rec := httptest.NewRecorder()
	wrap(h, h.PostTrigger)(rec, req)

	require.Equal(t, 202, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["queued"])

	require.Len(t, pusher.pushed, 1)
	trig, err := queue.DecodeTrigger(pusher.pushed[0])
	require.NoError(t, err)
	assert.Equal(t, body["trigger_id"], trig.ID)
	assert.Equal(t, "api", trig.Source)
	assert.JSONEq(t, `{"reason":"manual"}`, string(trig.Payload))
}

func TestPostTrigger_Errors(t *testing.T) {
	tests := []struct {
		name   string
		deps   Deps
		body   string
		status int
		code   string
	}{
		{"no queue", Deps{}, "", 503, "UNAVAILABLE"},
		{"invalid json", Deps{Triggers: &stubPusher{}}, "{", 400, "BAD_REQUEST"},
		{"push failure", Deps{Triggers: &stubPusher{err: errors.New("conn refused")}}, "", 503, "UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(tt.deps)
			rec := httptest.NewRecorder()
			wrap(h, h.PostTrigger)(rec, httptest.NewRequest("POST", "/api/triggers", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			errBody, ok := decode(t, rec)["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.code, errBody["code"])
		})
	}
}

func TestListRuns(t *testing.T) {
	runs := &stubRuns{runs: []models.Run{{ID: "run_1", StatusCode: 200, VideosProcessed: 1}}}
	h := newHandler(Deps{Runs: runs})

	tests := []struct {
		query string
		limit int
	}{
		{"", 20},
		{"?limit=5", 5},
		{"?limit=1000", 200},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		wrap(h, h.ListRuns)(rec, httptest.NewRequest("GET", "/api/runs"+tt.query, nil))

		require.Equal(t, 200, rec.Code)
		assert.Equal(t, tt.limit, runs.limit, "query %q", tt.query)
		assert.Contains(t, rec.Body.String(), `"id":"run_1"`)
	}
}

func TestListRuns_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	h := newHandler(Deps{})
	wrap(h, h.ListRuns)(rec, httptest.NewRequest("GET", "/api/runs", nil))
	assert.Equal(t, 503, rec.Code)

	rec = httptest.NewRecorder()
	h = newHandler(Deps{Runs: &stubRuns{}})
	wrap(h, h.ListRuns)(rec, httptest.NewRequest("GET", "/api/runs?limit=abc", nil))
	assert.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	h = newHandler(Deps{Runs: &stubRuns{err: errors.New("relation locked")}})
	wrap(h, h.ListRuns)(rec, httptest.NewRequest("GET", "/api/runs", nil))
	assert.Equal(t, 500, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newHandler(Deps{})

	for _, path := range []string{"/health", "/health?deep=true"} {
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest("GET", path, nil))

		assert.Equal(t, 200, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "veoworker-api", body["service"])
		assert.Equal(t, config.Version, body["version"])
	}
}

func TestHealth_QueueDepth(t *testing.T) {
	h := newHandler(Deps{Triggers: &queuePusher{depth: 3}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health?deep=true", nil))

	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, map[string]any{"status": "ok", "pending_triggers": float64(3)}, checks["queue"])
}

func TestHealth_QueueDepthError(t *testing.T) {
	h := newHandler(Deps{Triggers: &queuePusher{err: errors.New("connection refused")}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health?deep=true", nil))

	body := decode(t, rec)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "connection refused", checks["queue"].(map[string]any)["error"])
}
