package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/host"
	"github.com/teemow/bluebird/internal/instrumentation"
	"github.com/teemow/bluebird/internal/logging"
	"github.com/teemow/bluebird/internal/session"
)

const (
	// DefaultSessionTimeout is how long an untouched session is kept.
	DefaultSessionTimeout = 24 * time.Hour

	// DefaultCleanupInterval is how often idle sessions are evicted.
	DefaultCleanupInterval = 10 * time.Minute
)

var (
	// ErrShutdown is returned for session lookups after Shutdown.
	ErrShutdown = errors.New("server is shutting down")

	// ErrNoSession is returned when a draft has no open session.
	ErrNoSession = errors.New("no session for draft")

	// ErrSessionBusy is returned when a session cannot be closed during a
	// rewrite.
	ErrSessionBusy = errors.New("rewrite in progress for draft")
)

// HostFactory opens the document host for a draft of an account.
type HostFactory func(ctx context.Context, account, draftID string) (host.AsyncHost, error)

type sessionKey struct {
	account string
	draftID string
}

type sessionInfo struct {
	controller *session.Controller
	lastAccess time.Time
}

// ServerContext holds one rewrite session per (account, draft) for the MCP
// server along with the shared service client and instrumentation.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	service session.Service
	hosts   HostFactory
	tone    draft.Tone
	action  draft.Action

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *slog.Logger

	sessionTimeout  time.Duration
	cleanupInterval time.Duration
	cleanupDone     chan struct{}

	mu       sync.RWMutex
	sessions map[sessionKey]*sessionInfo
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithMetrics records rewrite, feedback and session metrics to m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithAuditLogger sets the audit logger used by tool handlers.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.audit = al
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithDefaultSelection sets the tone and action new sessions start with.
func WithDefaultSelection(tone draft.Tone, action draft.Action) Option {
	return func(sc *ServerContext) {
		sc.tone = tone
		sc.action = action
	}
}

// WithSessionTimeout evicts sessions not used for timeout, checking every
// interval. A zero interval disables eviction.
func WithSessionTimeout(timeout, interval time.Duration) Option {
	return func(sc *ServerContext) {
		sc.sessionTimeout = timeout
		sc.cleanupInterval = interval
	}
}

// NewServerContext creates a server context. Sessions are created lazily on
// first use.
func NewServerContext(ctx context.Context, svc session.Service, hosts HostFactory, opts ...Option) (*ServerContext, error) {
	if svc == nil {
		return nil, fmt.Errorf("rewrite service is required")
	}
	if hosts == nil {
		return nil, fmt.Errorf("host factory is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		service:         svc,
		hosts:           hosts,
		tone:            draft.ToneDefault,
		action:          draft.ActionRewrite,
		logger:          slog.Default(),
		sessionTimeout:  DefaultSessionTimeout,
		cleanupInterval: DefaultCleanupInterval,
		cleanupDone:     make(chan struct{}),
		sessions:        make(map[sessionKey]*sessionInfo),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.logger = logging.WithComponent(sc.logger, "server")

	if sc.cleanupInterval > 0 {
		go sc.cleanupExpiredSessions()
	}
	return sc, nil
}

// Context returns the server context. It is cancelled by Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.audit
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Session returns the controller for a draft, creating it on first use.
func (sc *ServerContext) Session(ctx context.Context, account, draftID string) (*session.Controller, error) {
	key := sessionKey{account: account, draftID: draftID}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, ErrShutdown
	}
	if info, ok := sc.sessions[key]; ok {
		info.lastAccess = time.Now()
		return info.controller, nil
	}

	h, err := sc.hosts(sc.ctx, account, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft %s: %w", draftID, err)
	}

	opts := []session.Option{
		session.WithLogger(sc.logger.With(logging.Account(account), logging.Draft(draftID))),
		session.WithSelection(sc.tone, sc.action),
	}
	if sc.metrics != nil {
		opts = append(opts, session.WithRecorder(sc.metrics))
	}
	c := session.NewForHost(h, sc.service, opts...)

	sc.sessions[key] = &sessionInfo{controller: c, lastAccess: time.Now()}
	sc.metrics.IncrementActiveSessions(ctx)
	sc.logger.Debug("session opened", logging.Account(account), logging.Draft(draftID))
	return c, nil
}

// LookupSession returns an existing controller without creating one.
func (sc *ServerContext) LookupSession(account, draftID string) (*session.Controller, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	info, ok := sc.sessions[sessionKey{account: account, draftID: draftID}]
	if !ok {
		return nil, false
	}
	info.lastAccess = time.Now()
	return info.controller, true
}

// CloseSession drops the session for a draft after its pending feedback has
// settled. A session with a rewrite in flight is kept and ErrSessionBusy is
// returned.
func (sc *ServerContext) CloseSession(account, draftID string) error {
	key := sessionKey{account: account, draftID: draftID}

	sc.mu.Lock()
	info, ok := sc.sessions[key]
	if !ok {
		sc.mu.Unlock()
		return ErrNoSession
	}
	if info.controller.State().Busy {
		sc.mu.Unlock()
		return ErrSessionBusy
	}
	delete(sc.sessions, key)
	sc.mu.Unlock()

	info.controller.Wait()
	sc.metrics.DecrementActiveSessions(sc.ctx)
	return nil
}

// SessionSummary describes one open session.
type SessionSummary struct {
	Account    string
	DraftID    string
	State      session.State
	LastAccess time.Time
}

// Sessions returns the open sessions ordered by account and draft ID.
func (sc *ServerContext) Sessions() []SessionSummary {
	sc.mu.RLock()
	out := make([]SessionSummary, 0, len(sc.sessions))
	controllers := make([]*session.Controller, 0, len(sc.sessions))
	for key, info := range sc.sessions {
		out = append(out, SessionSummary{Account: key.account, DraftID: key.draftID, LastAccess: info.lastAccess})
		controllers = append(controllers, info.controller)
	}
	sc.mu.RUnlock()

	for i, c := range controllers {
		out[i].State = c.State()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].DraftID < out[j].DraftID
	})
	return out
}

// SessionCount returns the number of open sessions.
func (sc *ServerContext) SessionCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sessions)
}

// cleanupExpiredSessions periodically removes idle sessions.
func (sc *ServerContext) cleanupExpiredSessions() {
	ticker := time.NewTicker(sc.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := sc.evictIdle(time.Now()); n > 0 {
				sc.logger.Info("cleaned up idle sessions", "count", n)
			}
		case <-sc.cleanupDone:
			return
		}
	}
}

func (sc *ServerContext) evictIdle(now time.Time) int {
	sc.mu.Lock()
	var expired []*sessionInfo
	for key, info := range sc.sessions {
		if now.Sub(info.lastAccess) > sc.sessionTimeout && !info.controller.State().Busy {
			expired = append(expired, info)
			delete(sc.sessions, key)
		}
	}
	sc.mu.Unlock()

	for _, info := range expired {
		info.controller.Wait()
		sc.metrics.DecrementActiveSessions(sc.ctx)
	}
	return len(expired)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown stops accepting sessions, waits for pending feedback and cancels
// the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sessions := sc.sessions
	sc.sessions = make(map[sessionKey]*sessionInfo)
	close(sc.cleanupDone)
	sc.mu.Unlock()

	for _, info := range sessions {
		info.controller.Wait()
		sc.metrics.DecrementActiveSessions(sc.ctx)
	}
	sc.cancel()
	return nil
}
