package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/bluebird/internal/gmail"
	"github.com/teemow/bluebird/internal/google"
	"github.com/teemow/bluebird/internal/host"
)

// GmailHosts opens Gmail drafts as document hosts, caching one API client
// per account.
type GmailHosts struct {
	provider google.TokenProvider
	opts     []gmail.ClientOption
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[string]*gmail.Client
}

// NewGmailHosts returns a GmailHosts authenticating through provider.
func NewGmailHosts(provider google.TokenProvider, logger *slog.Logger, opts ...gmail.ClientOption) *GmailHosts {
	if logger == nil {
		logger = slog.Default()
	}
	return &GmailHosts{
		provider: provider,
		opts:     opts,
		logger:   logger,
		clients:  make(map[string]*gmail.Client),
	}
}

// Open implements HostFactory.
func (g *GmailHosts) Open(ctx context.Context, account, draftID string) (host.AsyncHost, error) {
	client, err := g.clientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return gmail.NewDraftHost(client, draftID, g.logger), nil
}

// SetClientForAccount installs client for account.
func (g *GmailHosts) SetClientForAccount(account string, client *gmail.Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[account] = client
}

func (g *GmailHosts) clientForAccount(ctx context.Context, account string) (*gmail.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client, ok := g.clients[account]; ok {
		return client, nil
	}
	if err := google.ValidateAccountName(account); err != nil {
		return nil, err
	}
	if !g.provider.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google token for account %s, run 'bluebird auth --account %s'", account, account)
	}

	client, err := gmail.NewClientForAccount(ctx, g.provider, account, g.opts...)
	if err != nil {
		return nil, err
	}
	g.clients[account] = client
	return client, nil
}
