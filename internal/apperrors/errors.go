// Package apperrors defines the error taxonomy shared by services and
// handlers. Callers classify failures with errors.Is and map them to
// transport codes at the edge.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced user, post, comment or notification does
	// not exist. The operation aborts with no partial effect beyond what
	// already committed.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation: the request is structurally valid but not
	// allowed (self-follow, unknown reaction type, editing someone
	// else's comment).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrTransientStore: a single-document write failed. Follow, unfollow,
	// react and unreact are idempotent at the storage-key level, so the
	// caller may retry.
	ErrTransientStore = errors.New("transient store error")
)

// NotFound wraps ErrNotFound with the resource kind and id.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, id)
}

// InvalidOperation wraps ErrInvalidOperation with a reason.
func InvalidOperation(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, reason)
}

// TransientStore wraps a storage error so callers can detect retryability.
func TransientStore(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
}
