package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth token sources per account.
type TokenProvider interface {
	// TokenSource returns a refreshing token source for account.
	TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error)

	// HasTokenForAccount reports whether account has been authorized.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider serves tokens from a TokenStore, refreshing them with
// Config.
type FileTokenProvider struct {
	Store  *TokenStore
	Config *oauth2.Config
}

// NewFileTokenProvider returns a provider over the default token store.
func NewFileTokenProvider(creds ClientCredentials) *FileTokenProvider {
	return &FileTokenProvider{
		Store:  DefaultTokenStore(),
		Config: OAuthConfig(creds),
	}
}

// TokenSource implements TokenProvider.
func (p *FileTokenProvider) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	tok, err := p.Store.Load(account)
	if err != nil {
		return nil, err
	}
	if p.Config.ClientID == "" {
		return nil, fmt.Errorf("google client ID is not configured; set GOOGLE_CLIENT_ID or gmail.client_id")
	}
	return p.Config.TokenSource(ctx, tok), nil
}

// HasTokenForAccount implements TokenProvider.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return p.Store.Has(account)
}
