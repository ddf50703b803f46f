// Package gmail edits the body of Gmail drafts.
//
// Client wraps the Gmail users service for one account. DraftHost adapts a
// single draft to host.AsyncHost so that a session controller can rewrite it:
// reads return the HTML body (plain text bodies are converted), writes replace
// the body while keeping the draft's addressing and threading headers.
package gmail
