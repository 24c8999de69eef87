package models

import "time"

// Run is the persisted summary of one invocation.
type Run struct {
	ID              string    `json:"id"`
	Trigger         string    `json:"trigger"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	StatusCode      int       `json:"status_code"`
	VideosProcessed int       `json:"videos_processed"`
	Message         string    `json:"message,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// DurationMS is the wall-clock time of the invocation.
func (r *Run) DurationMS() int64 {
	return r.FinishedAt.Sub(r.StartedAt).Milliseconds()
}
