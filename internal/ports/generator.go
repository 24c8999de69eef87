package ports

import "context"

type OutcomeKind int

const (
	// OutcomeEmpty: the operation timed out locally or finished without an asset.
	OutcomeEmpty OutcomeKind = iota
	// OutcomeSuccess: a generated asset URI is available.
	OutcomeSuccess
	// OutcomeFailure: the service or the caller aborted with a message.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "empty"
	}
}

// Outcome is the result of one generation sub-call.
type Outcome struct {
	Kind    OutcomeKind
	URI     string
	Message string
}

func Success(uri string) Outcome { return Outcome{Kind: OutcomeSuccess, URI: uri} }

func Empty() Outcome { return Outcome{Kind: OutcomeEmpty} }

func Failure(message string) Outcome { return Outcome{Kind: OutcomeFailure, Message: message} }

// VideoGenerator submits a text-to-video job and waits a bounded time for it.
// Implementations never return transport errors: those collapse into Empty.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt, aspectRatio string) Outcome
}
