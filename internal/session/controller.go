package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/host"
	"github.com/teemow/bluebird/internal/instrumentation"
	"github.com/teemow/bluebird/internal/logging"
	"github.com/teemow/bluebird/internal/service"
)

// Document is the draft body the controller edits. *host.Bridge implements it.
type Document interface {
	ReadBody(ctx context.Context) (string, error)
	WriteBody(ctx context.Context, content string) error
}

// Service is the rewriting service. *service.Client implements it.
type Service interface {
	Rewrite(ctx context.Context, req service.RewriteRequest) (*service.RewriteResponse, error)
	Feedback(ctx context.Context, req service.FeedbackRequest) error
}

// Recorder receives rewrite and feedback outcomes. *instrumentation.Metrics
// implements it.
type Recorder interface {
	RecordRewrite(ctx context.Context, tone draft.Tone, action draft.Action, status string, duration time.Duration)
	RecordFeedback(ctx context.Context, vote draft.Vote, status string)
}

// Controller runs the rewrite session for one document.
type Controller struct {
	doc      Document
	svc      Service
	logger   *slog.Logger
	recorder Recorder
	observer func(State)

	mu    sync.Mutex
	state State

	feedback sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver calls fn with a snapshot after every state transition. fn runs
// outside the controller's lock and may call State.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithSelection sets the initial tone and action.
func WithSelection(tone draft.Tone, action draft.Action) Option {
	return func(c *Controller) {
		c.state.Tone = tone
		c.state.Action = action
	}
}

// New returns an idle Controller editing doc through svc. The initial
// selection is the default tone with a smart rewrite.
func New(doc Document, svc Service, opts ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		svc:    svc,
		logger: slog.Default(),
		state: State{
			Tone:   draft.ToneDefault,
			Action: draft.ActionRewrite,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithComponent(c.logger, "session")
	return c
}

// NewForHost is New over a host.Bridge for h.
func NewForHost(h host.AsyncHost, svc Service, opts ...Option) *Controller {
	return New(host.NewBridge(h), svc, opts...)
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetTone changes the selected tone. Values are not validated.
func (c *Controller) SetTone(tone draft.Tone) {
	c.update(func(s *State) { s.Tone = tone })
}

// SetAction changes the selected action. Values are not validated.
func (c *Controller) SetAction(action draft.Action) {
	c.update(func(s *State) { s.Action = action })
}

// RewriteSelected runs Rewrite with the currently selected tone and action.
func (c *Controller) RewriteSelected(ctx context.Context) bool {
	s := c.State()
	return c.Rewrite(ctx, s.Tone, s.Action)
}

// Rewrite reads the body, has the service rewrite it, writes the result back
// and records it as the last draft. It blocks until the attempt settles and
// reports whether the trigger was accepted; false means another rewrite was
// in flight and nothing happened. The outcome is reported through State.
//
// On failure the document and the last draft are left as they were. A body
// write that fails after the service answered cannot be undone and leaves
// whatever the host kept.
func (c *Controller) Rewrite(ctx context.Context, tone draft.Tone, action draft.Action) bool {
	_, accepted, _ := c.run(ctx, tone, action, false)
	return accepted
}

// RewriteWith is Rewrite for callers that need the outcome of this attempt
// rather than the session's latest status. Once the trigger is accepted, tone
// and action become the session's selection. A rejected trigger returns
// ErrBusy and leaves the selection alone.
func (c *Controller) RewriteWith(ctx context.Context, tone draft.Tone, action draft.Action) (draft.Record, error) {
	rec, accepted, err := c.run(ctx, tone, action, true)
	if !accepted {
		return draft.Record{}, ErrBusy
	}
	return rec, err
}

func (c *Controller) run(ctx context.Context, tone draft.Tone, action draft.Action, selectOnAccept bool) (draft.Record, bool, error) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		c.logger.Debug("rewrite rejected while busy", logging.Tone(string(tone)), logging.Action(string(action)))
		if c.recorder != nil {
			c.recorder.RecordRewrite(ctx, tone, action, instrumentation.StatusBusy, 0)
		}
		return draft.Record{}, false, ErrBusy
	}
	c.state.Busy = true
	c.state.Status = StatusFetching
	if selectOnAccept {
		c.state.Tone = tone
		c.state.Action = action
	}
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.notify(snap)

	start := time.Now()
	ctx, span := instrumentation.StartSpan(ctx, "session.rewrite",
		attribute.String(instrumentation.SpanAttrTone, string(tone)),
		attribute.String(instrumentation.SpanAttrAction, string(action)),
	)
	defer span.End()

	rec, err := c.rewrite(ctx, tone, action)

	c.mu.Lock()
	if err != nil {
		c.state.Status = StatusRewriteFailed
	} else {
		c.state.LastDraft = &rec
		c.state.Status = StatusRewritten
	}
	c.state.Busy = false
	snap = c.transitionLocked()
	c.mu.Unlock()

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		c.logger.Error("rewrite failed",
			logging.Tone(string(tone)),
			logging.Action(string(action)),
			slog.String("kind", errorKind(err)),
			logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
		c.logger.Info("draft rewritten",
			logging.Tone(string(tone)),
			logging.Action(string(action)),
			logging.ContentSize(len(rec.Rewritten)),
			slog.Bool("changed", rec.Changed()),
			slog.Duration(logging.KeyDuration, time.Since(start)))
	}
	if c.recorder != nil {
		c.recorder.RecordRewrite(ctx, tone, action, status, time.Since(start))
	}

	c.notify(snap)
	return rec, true, err
}

func (c *Controller) rewrite(ctx context.Context, tone draft.Tone, action draft.Action) (draft.Record, error) {
	original, err := c.doc.ReadBody(ctx)
	if err != nil {
		return draft.Record{}, err
	}

	resp, err := c.svc.Rewrite(ctx, service.RewriteRequest{HTML: original, Tone: tone, Action: action})
	if err != nil {
		return draft.Record{}, err
	}

	content := resp.ContentOr(original)
	if err := c.doc.WriteBody(ctx, content); err != nil {
		return draft.Record{}, err
	}

	return draft.Record{
		Original:  original,
		Rewritten: content,
		Tone:      tone,
		Action:    action,
	}, nil
}

// SubmitFeedback sends vote about the last draft in the background. Without
// a last draft it does nothing. The returned channel is closed once the
// submission has settled, or immediately when nothing was sent.
//
// Feedback never changes the last draft and never blocks a rewrite.
func (c *Controller) SubmitFeedback(ctx context.Context, vote draft.Vote) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.state.LastDraft == nil {
		c.mu.Unlock()
		close(done)
		return done
	}
	rec := *c.state.LastDraft
	c.state.Status = StatusSendingFeedback
	c.state.FeedbackPending++
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.feedback.Add(1)
	go func() {
		defer c.feedback.Done()
		defer close(done)
		c.sendFeedback(ctx, vote, rec)
	}()
	return done
}

func (c *Controller) sendFeedback(ctx context.Context, vote draft.Vote, rec draft.Record) {
	ctx, span := instrumentation.StartSpan(ctx, "session.feedback",
		attribute.String(instrumentation.SpanAttrVote, string(vote)))
	defer span.End()

	err := c.svc.Feedback(ctx, service.NewFeedbackRequest(vote, rec))

	c.mu.Lock()
	switch {
	case err != nil:
		c.state.Status = StatusFeedbackFailed
	case vote == draft.VoteUp:
		c.state.Status = StatusThanksUp
	default:
		c.state.Status = StatusThanksDown
	}
	c.state.FeedbackPending--
	snap := c.transitionLocked()
	c.mu.Unlock()

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		c.logger.Warn("feedback failed",
			logging.Vote(string(vote)),
			slog.String("kind", errorKind(err)),
			logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
		c.logger.Info("feedback sent", logging.Vote(string(vote)))
	}
	if c.recorder != nil {
		c.recorder.RecordFeedback(ctx, vote, status)
	}

	c.notify(snap)
}

// Wait blocks until every feedback submission has settled.
func (c *Controller) Wait() {
	c.feedback.Wait()
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) transitionLocked() State {
	c.state.Seq++
	return c.state.clone()
}

func (c *Controller) notify(s State) {
	if c.observer != nil {
		c.observer(s)
	}
}

// errorKind names the failure class for logs.
func errorKind(err error) string {
	var (
		hostErr *host.OperationError
		svcErr  *service.ServiceError
		netErr  *service.NetworkError
	)
	switch {
	case errors.As(err, &hostErr):
		return "host"
	case errors.As(err, &svcErr):
		return "service"
	case errors.As(err, &netErr):
		return "network"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "unknown"
}
