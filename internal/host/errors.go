package host

import (
	"fmt"
)

// Operation names used in OperationError.
const (
	OpReadBody  = "read_body"
	OpWriteBody = "write_body"
)

// Error is the structured payload a host attaches to a failed operation.
type Error struct {
	Name    string
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e == nil {
		return "unknown host error"
	}
	if e.Name == "" {
		return e.Message
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// OperationError reports that a host read or write came back failed.
type OperationError struct {
	Op  string
	Err *Error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("host %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}
