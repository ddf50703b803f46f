// Package logging holds the structured logging conventions used across bluebird.
//
// Everything logs through log/slog. This package fixes the attribute keys so
// that a rewrite logged by the CLI, the MCP server and the dev service can be
// correlated, and it provides the helpers that keep draft content and account
// identities out of the logs.
//
// # Usage
//
//	logger := logging.WithOperation(slog.Default(), "session.rewrite")
//	logger.Info("rewrite finished",
//	    logging.Tone(string(tone)),
//	    logging.Action(string(action)),
//	    logging.ContentSize(len(html)),
//	    logging.Status(logging.StatusSuccess))
//
// # What is never logged
//
// Draft bodies are only ever described by their size. Account names that look
// like email addresses are hashed with AnonymizeEmail. Tokens go through
// SanitizeToken.
package logging
