package httpkit

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 202, map[string]any{"queued": true})

	assert.Equal(t, 202, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"queued":true}`, rec.Body.String())
}

func TestReadPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"empty", "", "{}", false},
		{"blank", "  \n", "{}", false},
		{"object", `{"a":1}`, `{"a":1}`, false},
		{"invalid", `{"a":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			got, err := ReadPayload(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer s3cret", "s3cret"},
		{"bearer s3cret", "s3cret"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, BearerToken(req), "header %q", tt.header)
	}
}
