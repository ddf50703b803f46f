package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_ReadBody(t *testing.T) {
	b := NewBridge(NewMemory("<p>Hi</p>"))

	body, err := b.ReadBody(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi</p>", body)
}

func TestBridge_WriteBody(t *testing.T) {
	m := NewMemory("<p>Hi</p>")
	b := NewBridge(m)

	require.NoError(t, b.WriteBody(context.Background(), "<p>Hello,</p>"))
	assert.Equal(t, "<p>Hello,</p>", m.Body())
}

func TestBridge_FailedStatus(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Memory, *Bridge) error
		op   string
	}{
		{
			name: "read",
			run: func(m *Memory, b *Bridge) error {
				m.FailReads(&Error{Name: "GenericError", Message: "read denied", Code: 5001})
				_, err := b.ReadBody(context.Background())
				return err
			},
			op: OpReadBody,
		},
		{
			name: "write",
			run: func(m *Memory, b *Bridge) error {
				m.FailWrites(&Error{Name: "GenericError", Message: "write denied", Code: 5001})
				return b.WriteBody(context.Background(), "<p>x</p>")
			},
			op: OpWriteBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory("<p>Hi</p>")
			err := tt.run(m, NewBridge(m))

			var opErr *OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, tt.op, opErr.Op)
			assert.Equal(t, 5001, opErr.Err.Code)
			assert.Equal(t, "<p>Hi</p>", m.Body())

			var payload *Error
			assert.True(t, errors.As(err, &payload))
		})
	}
}

func TestBridge_ReadBodyCancelled(t *testing.T) {
	m := NewMemory("<p>Hi</p>")
	release := m.Hold()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewBridge(m).ReadBody(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBridge_HoldRelease(t *testing.T) {
	m := NewMemory("<p>Hi</p>")
	release := m.Hold()

	done := make(chan string, 1)
	go func() {
		body, _ := NewBridge(m).ReadBody(context.Background())
		done <- body
	}()

	select {
	case <-done:
		t.Fatal("read returned while held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case body := <-done:
		assert.Equal(t, "<p>Hi</p>", body)
	case <-time.After(time.Second):
		t.Fatal("read did not return after release")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{nil, "unknown host error"},
		{&Error{Message: "plain"}, "plain"},
		{&Error{Name: "Denied", Message: "no"}, "Denied: no"},
		{&Error{Name: "Denied", Message: "no", Code: 13}, "Denied (13): no"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestOperationError_UnwrapNil(t *testing.T) {
	err := &OperationError{Op: OpReadBody}
	assert.NoError(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "read_body")
}
