package veo

import (
	"fmt"

	"google.golang.org/genai"
)

// VideoURI returns the first generated video URI, or "".
func VideoURI(op *genai.GenerateVideosOperation) string {
	if op == nil || op.Response == nil {
		return ""
	}
	for _, v := range op.Response.GeneratedVideos {
		if v != nil && v.Video != nil && v.Video.URI != "" {
			return v.Video.URI
		}
	}
	return ""
}

// FilteredReasons lists the safety filter reasons attached to the result.
func FilteredReasons(op *genai.GenerateVideosOperation) []string {
	if op == nil || op.Response == nil {
		return nil
	}
	return op.Response.RAIMediaFilteredReasons
}

// OperationError returns the message of a finished operation's error
// status, and false when the operation carries none.
func OperationError(op *genai.GenerateVideosOperation) (string, bool) {
	if op == nil || len(op.Error) == 0 {
		return "", false
	}
	if msg, ok := op.Error["message"].(string); ok && msg != "" {
		return msg, true
	}
	return fmt.Sprintf("veo operation error %v", op.Error["code"]), true
}
