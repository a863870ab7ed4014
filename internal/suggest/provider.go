package suggest

import (
	"context"
	"errors"
	"fmt"
)

// Provider sends one prompt to a language model and returns its raw reply.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrNoProvider is returned by Unavailable.
var ErrNoProvider = errors.New("no suggestion provider configured")

// Unavailable is used when no API key is configured. Every request made
// through it falls back to the static default.
type Unavailable struct {
	Reason string
}

// Generate always fails.
func (u Unavailable) Generate(context.Context, string) (string, error) {
	if u.Reason == "" {
		return "", ErrNoProvider
	}
	return "", fmt.Errorf("%w: %s", ErrNoProvider, u.Reason)
}

// NetworkError wraps a failed provider call.
type NetworkError struct {
	Kind Kind
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s suggestion request: %v", e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a reply that no parse strategy could read.
type ParseError struct {
	Kind  Kind
	Reply string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s suggestion reply: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
