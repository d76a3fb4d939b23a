package gateway

import (
	"context"
	"fmt"
)

// Params are the fixed generation settings for one completion call.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completer performs the actual call to the external completion API. It is
// the single suspension point per request: handlers block on this call and
// nothing else.
type Completer interface {
	// Complete sends the prompt and returns the raw text payload.
	Complete(ctx context.Context, prompt string, p Params) (string, error)

	// Provider is the human-readable provider label included in responses.
	Provider() string
}

// Error wraps an upstream completion failure (timeout, auth, rate limit,
// malformed or absent response).
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s: upstream status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
