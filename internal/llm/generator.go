package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role values used in chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an assistant reply for a sequence of chat messages.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// UnavailableError signals that the generation backend could not serve the
// request (auth failure, rate limiting, timeout, server error). Callers
// treat it as transient and fall back to a canned reply instead of failing
// the turn.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// IsUnavailable reports whether err is an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
