package util

import (
	"github.com/google/uuid"
)

// NewID returns "<prefix>_<uuid v4>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
