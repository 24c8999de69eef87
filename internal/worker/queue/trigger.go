package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"veoworker/internal/worker/util"
)

// Trigger is the opaque payload that starts one invocation. Payload is kept
// as received and never interpreted by the worker.
type Trigger struct {
	ID       string          `json:"id"`
	Source   string          `json:"source"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	QueuedAt time.Time       `json:"queued_at"`
}

func NewTrigger(source string, payload json.RawMessage) Trigger {
	return Trigger{
		ID:       util.NewID("trg"),
		Source:   source,
		Payload:  payload,
		QueuedAt: time.Now().UTC(),
	}
}

func (t Trigger) Encode() (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Label is the short form stored on the run record, e.g. "api:trg_...".
func (t Trigger) Label() string {
	if t.ID == "" {
		return t.Source
	}
	return t.Source + ":" + t.ID
}

func DecodeTrigger(raw string) (Trigger, error) {
	var t Trigger
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Trigger{}, fmt.Errorf("decode trigger: %w", err)
	}
	if t.Source == "" {
		t.Source = "queue"
	}
	return t, nil
}
