package host

import (
	"context"
)

// Bridge exposes the body of an AsyncHost through blocking calls.
type Bridge struct {
	host AsyncHost
}

// NewBridge returns a Bridge over h.
func NewBridge(h AsyncHost) *Bridge {
	return &Bridge{host: h}
}

// ReadBody returns the current body as HTML.
//
// A failed host status yields *OperationError. If ctx is done before the host
// answers, ctx.Err() is returned and the late callback is discarded.
func (b *Bridge) ReadBody(ctx context.Context) (string, error) {
	ch := make(chan AsyncResult[string], 1)
	b.host.GetBodyAsync(ctx, CoercionHTML, func(r AsyncResult[string]) {
		ch <- r
	})

	select {
	case r := <-ch:
		if !r.Succeeded() {
			return "", &OperationError{Op: OpReadBody, Err: r.Error}
		}
		return r.Value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// WriteBody replaces the whole body with content, interpreted as HTML.
func (b *Bridge) WriteBody(ctx context.Context, content string) error {
	ch := make(chan AsyncResult[struct{}], 1)
	b.host.SetBodyAsync(ctx, content, SetOptions{CoercionType: CoercionHTML}, func(r AsyncResult[struct{}]) {
		ch <- r
	})

	select {
	case r := <-ch:
		if !r.Succeeded() {
			return &OperationError{Op: OpWriteBody, Err: r.Error}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
