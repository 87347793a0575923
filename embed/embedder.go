// Package embed provides clients for external embedding services. The
// query engine treats embedding as an opaque function from text to a
// fixed-length vector.
package embed

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Embedder turns text into a fixed-length vector. Implementations make at
// most one bounded attempt; retry policy belongs to the caller.
type Embedder interface {
	// Embed returns the embedding for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the expected vector length, 0 if unknown.
	Dimension() int
}

// Error is a failure of the external embedding service, distinguishing
// timeouts (retryable) from rejections (not).
type Error struct {
	Provider string
	Timeout  bool
	Err      error
}

func (e *Error) Error() string {
	kind := "request failed"
	if e.Timeout {
		kind = "request timed out"
	}
	return fmt.Sprintf("embedding service %s: %s: %v", e.Provider, kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr classifies a transport error as timeout or rejection.
func wrapErr(provider string, err error) *Error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if !timeout && errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}
	return &Error{Provider: provider, Timeout: timeout, Err: err}
}

// Config configures an embedding client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int

	// Watsonx-specific fields.
	ProjectID string
}
