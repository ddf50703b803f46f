// Package devservice is a local stand-in for the Bluebird rewriting service.
//
// It serves the two endpoints the session controller calls, POST /v1/rewrite
// and POST /v1/feedback, with the same JSON bodies as the hosted service.
// Rewrites come from a Rewriter: OpenAIRewriter when an API key is
// configured, Deterministic otherwise. Votes are only counted and logged.
package devservice
