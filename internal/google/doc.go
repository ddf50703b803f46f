// Package google manages the Google OAuth2 tokens bluebird uses to edit Gmail
// drafts.
//
// Tokens are kept per named account ("default", "work", ...) in the user
// cache directory, one file per account. The TokenProvider interface lets the
// Gmail host obtain a token source without knowing where tokens live.
package google
