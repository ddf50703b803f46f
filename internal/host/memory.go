package host

import (
	"context"
	"sync"
)

// Memory is an in-process AsyncHost. Failures can be injected per operation,
// and Hold lets a caller keep the next read pending until released.
type Memory struct {
	mu       sync.Mutex
	body     string
	readErr  *Error
	writeErr *Error
	gate     chan struct{}
	reads    int
	writes   int
}

// NewMemory returns a Memory host holding body.
func NewMemory(body string) *Memory {
	return &Memory{body: body}
}

// Body returns the current body.
func (m *Memory) Body() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.body
}

// SetBody replaces the body directly, as the author typing would.
func (m *Memory) SetBody(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
}

// FailReads makes subsequent reads fail with err; nil clears it.
func (m *Memory) FailReads(err *Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent writes fail with err; nil clears it.
func (m *Memory) FailWrites(err *Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Hold keeps reads pending until the returned release func is called.
func (m *Memory) Hold() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gate == gate {
				m.gate = nil
			}
			m.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many reads and writes the host has served.
func (m *Memory) Calls() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

// GetBodyAsync implements AsyncHost.
func (m *Memory) GetBodyAsync(_ context.Context, _ CoercionType, callback func(AsyncResult[string])) {
	m.mu.Lock()
	m.reads++
	gate := m.gate
	m.mu.Unlock()

	go func() {
		if gate != nil {
			<-gate
		}
		m.mu.Lock()
		body, err := m.body, m.readErr
		m.mu.Unlock()

		if err != nil {
			callback(Fail[string](err))
			return
		}
		callback(Succeed(body))
	}()
}

// SetBodyAsync implements AsyncHost.
func (m *Memory) SetBodyAsync(_ context.Context, content string, _ SetOptions, callback func(AsyncResult[struct{}])) {
	m.mu.Lock()
	m.writes++
	err := m.writeErr
	if err == nil {
		m.body = content
	}
	m.mu.Unlock()

	go func() {
		if err != nil {
			callback(Fail[struct{}](err))
			return
		}
		callback(Succeed(struct{}{}))
	}()
}
