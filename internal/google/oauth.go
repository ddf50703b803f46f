package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultAccount is used when no account is named.
const DefaultAccount = "default"

// OOBRedirectURL makes Google display the authorization code for pasting.
const OOBRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// Scopes are the OAuth scopes bluebird requests. Compose covers reading and
// updating drafts.
var Scopes = []string{
	gmail.GmailComposeScope,
}

// ErrNoToken is returned when no token is stored for an account.
var ErrNoToken = errors.New("no Google OAuth token found")

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAccountName checks that account can be used as part of a file name.
func ValidateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// ClientCredentials identify the OAuth client bluebird authenticates as.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// CredentialsFromEnv reads GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
func CredentialsFromEnv() ClientCredentials {
	return ClientCredentials{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
}

// OAuthConfig returns the oauth2 configuration for creds.
func OAuthConfig(creds ClientCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOBRedirectURL,
		Scopes:       Scopes,
	}
}

// GetAuthURLForAccount returns the URL the user visits to authorize account.
func GetAuthURLForAccount(conf *oauth2.Config, account string) (string, error) {
	if err := ValidateAccountName(account); err != nil {
		return "", err
	}
	return conf.AuthCodeURL(account, oauth2.AccessTypeOffline), nil
}

// TokenStore reads and writes token files below Dir.
type TokenStore struct {
	Dir string
}

// DefaultTokenStore stores tokens in <user cache dir>/bluebird.
func DefaultTokenStore() *TokenStore {
	return &TokenStore{Dir: filepath.Join(userCacheDir(), "bluebird")}
}

// Path returns the token file for account.
func (s *TokenStore) Path(account string) string {
	return filepath.Join(s.Dir, "google-"+account+".token")
}

// Has reports whether a token file exists for account.
func (s *TokenStore) Has(account string) bool {
	if ValidateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(s.Path(account))
	return err == nil
}

// Save writes tok for account. The file holds the access and refresh token
// separated by a space.
func (s *TokenStore) Save(account string, tok *oauth2.Token) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	if tok.RefreshToken == "" {
		return fmt.Errorf("token for account %q has no refresh token", account)
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data := tok.AccessToken + " " + tok.RefreshToken
	if err := os.WriteFile(s.Path(account), []byte(data), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the stored token for account. The returned token is marked as
// expired so that the first use refreshes it.
func (s *TokenStore) Load(account string) (*oauth2.Token, error) {
	if err := ValidateAccountName(account); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(account))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for account %q", ErrNoToken, account)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) != 2 {
		return nil, fmt.Errorf("invalid token format in %s", s.Path(account))
	}
	return &oauth2.Token{
		AccessToken:  fields[0],
		TokenType:    "Bearer",
		RefreshToken: fields[1],
		Expiry:       time.Unix(1, 0),
	}, nil
}

// SaveTokenForAccount exchanges an authorization code and stores the token.
func SaveTokenForAccount(ctx context.Context, conf *oauth2.Config, store *TokenStore, account, authCode string) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	tok, err := conf.Exchange(ctx, strings.TrimSpace(authCode))
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return store.Save(account, tok)
}

// GetHTTPClientForAccount returns an HTTP client that authenticates as account.
func GetHTTPClientForAccount(ctx context.Context, provider TokenProvider, account string) (*http.Client, error) {
	ts, err := provider.TokenSource(ctx, account)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	if runtime.GOOS == "windows" {
		return os.TempDir()
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}
