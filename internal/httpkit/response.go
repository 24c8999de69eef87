package httpkit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxPayloadBytes caps request bodies read by ReadPayload.
const MaxPayloadBytes = 64 << 10

var ErrInvalidPayload = errors.New("payload must be a JSON value")

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ReadPayload returns the raw JSON body, or "{}" when the body is empty.
// The content is not interpreted beyond validity.
func ReadPayload(r *http.Request) (json.RawMessage, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(b)) == "" {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(b) {
		return nil, ErrInvalidPayload
	}
	return json.RawMessage(b), nil
}

// BearerToken extracts the token of an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
