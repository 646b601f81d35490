package store

import (
	"context"
	"errors"
	"fmt"
)

// Error wraps a failure from the durable store or the feed index.
// Op names the storage operation that failed (e.g. "posts.create").
// The wrapped error is for logs only and must never reach API clients.
type Error struct {
	Err error
	Op  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped as a store Error. A nil err returns nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsStoreError reports whether err (or anything it wraps) is a store Error.
func IsStoreError(err error) bool {
	var storeErr *Error
	return errors.As(err, &storeErr)
}

// IsTimeout reports whether the storage call gave up because its context
// deadline passed or was cancelled.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
