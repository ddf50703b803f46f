package host

import (
	"context"
)

// CoercionType names the format a body is read or written in.
type CoercionType string

// CoercionHTML is the only body format bluebird uses.
const CoercionHTML CoercionType = "html"

// AsyncStatus is the outcome reported to a host callback.
type AsyncStatus string

// Callback outcomes.
const (
	AsyncSucceeded AsyncStatus = "succeeded"
	AsyncFailed    AsyncStatus = "failed"
)

// SetOptions accompanies a body write.
type SetOptions struct {
	CoercionType CoercionType
}

// AsyncResult is what a host passes to a callback. Value is only meaningful
// when Status is AsyncSucceeded; Error is only set when it is not.
type AsyncResult[T any] struct {
	Status AsyncStatus
	Value  T
	Error  *Error
}

// Succeeded reports whether the host operation succeeded.
func (r AsyncResult[T]) Succeeded() bool {
	return r.Status == AsyncSucceeded
}

// AsyncHost is a document whose body can be read and replaced. Implementations
// must invoke the callback exactly once, from any goroutine.
type AsyncHost interface {
	GetBodyAsync(ctx context.Context, coercion CoercionType, callback func(AsyncResult[string]))
	SetBodyAsync(ctx context.Context, content string, opts SetOptions, callback func(AsyncResult[struct{}]))
}

// Succeed builds a successful result.
func Succeed[T any](v T) AsyncResult[T] {
	return AsyncResult[T]{Status: AsyncSucceeded, Value: v}
}

// Fail builds a failed result carrying the host's error payload.
func Fail[T any](err *Error) AsyncResult[T] {
	return AsyncResult[T]{Status: AsyncFailed, Error: err}
}
