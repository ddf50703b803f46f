package gmail

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/api/googleapi"

	"github.com/teemow/bluebird/internal/host"
	"github.com/teemow/bluebird/internal/logging"
)

// Error names reported by DraftHost.
const (
	ErrNameAPI    = "GmailAPIError"
	ErrNameDecode = "BodyDecodeError"
)

// DraftHost is a host.AsyncHost over the body of one Gmail draft.
type DraftHost struct {
	client  *Client
	draftID string
	logger  *slog.Logger
}

// NewDraftHost returns a host for draftID.
func NewDraftHost(client *Client, draftID string, logger *slog.Logger) *DraftHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftHost{
		client:  client,
		draftID: draftID,
		logger: logger.With(
			logging.Account(client.Account()),
			logging.Draft(draftID),
		),
	}
}

// DraftID returns the draft this host edits.
func (h *DraftHost) DraftID() string {
	return h.draftID
}

// GetBodyAsync implements host.AsyncHost.
func (h *DraftHost) GetBodyAsync(ctx context.Context, _ host.CoercionType, callback func(host.AsyncResult[string])) {
	go func() {
		d, err := h.client.GetDraft(ctx, h.draftID)
		if err != nil {
			callback(host.Fail[string](apiError(err)))
			return
		}
		body, err := ExtractHTMLBody(d.Message)
		if err != nil {
			callback(host.Fail[string](&host.Error{Name: ErrNameDecode, Message: err.Error()}))
			return
		}
		h.logger.Debug("draft body read", logging.ContentSize(len(body)))
		callback(host.Succeed(body))
	}()
}

// SetBodyAsync implements host.AsyncHost. The draft is fetched again so that
// headers edited since the last read are kept.
func (h *DraftHost) SetBodyAsync(ctx context.Context, content string, _ host.SetOptions, callback func(host.AsyncResult[struct{}])) {
	go func() {
		d, err := h.client.GetDraft(ctx, h.draftID)
		if err != nil {
			callback(host.Fail[struct{}](apiError(err)))
			return
		}
		if err := h.client.UpdateDraftBody(ctx, h.draftID, d, content); err != nil {
			callback(host.Fail[struct{}](apiError(err)))
			return
		}
		h.logger.Debug("draft body written", logging.ContentSize(len(content)))
		callback(host.Succeed(struct{}{}))
	}()
}

func apiError(err error) *host.Error {
	herr := &host.Error{Name: ErrNameAPI, Message: err.Error()}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		herr.Code = gerr.Code
	}
	return herr
}
