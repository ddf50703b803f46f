package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/bluebird/internal/google"
	"github.com/teemow/bluebird/internal/instrumentation"
)

// OperationRecorder receives one observation per Gmail API call.
type OperationRecorder interface {
	RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration)
}

// Client wraps the Gmail users service for one account.
type Client struct {
	svc      *gmail.UsersService
	account  string
	recorder OperationRecorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithOperationRecorder reports every API call to r.
func WithOperationRecorder(r OperationRecorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClientForAccount creates a client authenticated as account.
func NewClientForAccount(ctx context.Context, provider google.TokenProvider, account string, opts ...ClientOption) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, provider, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Run 'bluebird auth --account %s'", account, err, account)
	}
	return NewClient(ctx, account, []option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
}

// NewClient creates a client from raw API options.
func NewClient(ctx context.Context, account string, apiOpts []option.ClientOption, opts ...ClientOption) (*Client, error) {
	svc, err := gmail.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	c := &Client{svc: svc.Users, account: account}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// GetDraft fetches a draft with its full message payload.
func (c *Client) GetDraft(ctx context.Context, draftID string) (*gmail.Draft, error) {
	var d *gmail.Draft
	err := c.observe(ctx, instrumentation.OperationGetDraft, func(ctx context.Context) error {
		var err error
		d, err = c.svc.Drafts.Get("me", draftID).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get draft %s: %w", draftID, err)
	}
	return d, nil
}

// UpdateDraftBody replaces the body of a draft with html. Addressing and
// threading headers of the current message are kept. Attachments are not.
func (c *Client) UpdateDraftBody(ctx context.Context, draftID string, current *gmail.Draft, html string) error {
	if current == nil || current.Message == nil {
		return fmt.Errorf("draft %s has no message", draftID)
	}

	update := &gmail.Draft{
		Id: draftID,
		Message: &gmail.Message{
			Raw:      buildRawMessage(current.Message.Payload, html),
			ThreadId: current.Message.ThreadId,
		},
	}

	err := c.observe(ctx, instrumentation.OperationUpdateDraft, func(ctx context.Context) error {
		_, err := c.svc.Drafts.Update("me", draftID, update).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update draft %s: %w", draftID, err)
	}
	return nil
}

// ListDrafts returns up to max drafts, newest first.
func (c *Client) ListDrafts(ctx context.Context, max int64) ([]*gmail.Draft, error) {
	var drafts []*gmail.Draft
	err := c.observe(ctx, "drafts.list", func(ctx context.Context) error {
		res, err := c.svc.Drafts.List("me").MaxResults(max).Context(ctx).Do()
		if err != nil {
			return err
		}
		drafts = res.Drafts
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

func (c *Client) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.recorder != nil {
		c.recorder.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, operation, status, time.Since(start))
	}
	return err
}
