// Package session implements the rewrite-and-feedback flow for one draft.
//
// A Controller reads the draft body from its document, sends it to the
// rewriting service, writes the answer back and remembers the exchange as the
// last draft. A vote can then be sent about that last draft.
//
// Only one rewrite runs at a time. A trigger that arrives while a rewrite is
// in flight is rejected, not queued. Feedback does not take part in that
// exclusion and may overlap a later rewrite.
//
// Errors never escape the controller. They are logged and turned into the
// user-facing status line held in State.
package session
