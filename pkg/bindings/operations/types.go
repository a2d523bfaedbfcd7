package operations

import (
	"fmt"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
)

// WaitOptions are optional options for waiting on an operation
//
//go:generate go run ../generator/generator.go WaitOptions
type WaitOptions struct {
	// Timeout bounds the wait. Nil blocks until the operation completes; zero
	// returns the current state immediately. The daemon waits in whole
	// seconds, so a positive timeout is rounded up, 300ms waits up to 1s.
	Timeout *time.Duration `schema:"-"`
}

// PollOptions are optional options for polling an operation
//
//go:generate go run ../generator/generator.go PollOptions
type PollOptions struct {
	// Timeout bounds polling. Nil polls until the operation completes.
	Timeout *time.Duration `schema:"-"`
	// Interval is the delay before the second poll; later delays grow
	// exponentially.
	Interval *time.Duration `schema:"-"`
}

// Result is the envelope of an operation together with its decoded
// metadata.
type Result struct {
	*bindings.Envelope
	Operation entities.Operation
}

// OperationError reports an operation that terminated without success.
type OperationError struct {
	ID     string
	Status entities.OperationStatus
	// Message is the daemon's error text, unmodified.
	Message string
}

func (e *OperationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("operation %s: %s", e.ID, e.Status)
	}
	return fmt.Sprintf("operation %s: %s: %s", e.ID, e.Status, e.Message)
}

// ID returns the operation identifier, or "" for a synchronous result.
func (r *Result) ID() string {
	if r.Operation.ID != "" {
		return r.Operation.ID
	}
	if r.Envelope != nil && r.Envelope.IsAsync() {
		return r.Envelope.OperationID()
	}
	return ""
}

// Done reports whether the result is final: a synchronous answer, or an
// operation in a terminal state.
func (r *Result) Done() bool {
	if r.Operation.Status == "" {
		return r.Envelope == nil || !r.Envelope.IsAsync()
	}
	return r.Operation.Status.IsTerminal()
}

// Succeeded reports whether the result is final and successful.
func (r *Result) Succeeded() bool {
	return r.Done() && (r.Operation.Status == "" || r.Operation.Status.Is(entities.OperationSuccess))
}

// Err returns an *OperationError when the operation failed or was cancelled.
// A result that is not done yet is not an error.
func (r *Result) Err() error {
	if !r.Done() || r.Succeeded() {
		return nil
	}
	return &OperationError{ID: r.ID(), Status: r.Operation.Status, Message: r.Operation.Err}
}
