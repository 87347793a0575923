package recommend

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrEmbedding    = errors.New("embedding failed")
	ErrCatalog      = errors.New("catalog unavailable")
)

// QueryError wraps a failure with the pipeline stage it occurred in.
type QueryError struct {
	Op    string
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s [stage=%s]: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(op, stage string, err error) *QueryError {
	return &QueryError{Op: op, Stage: stage, Err: err}
}
