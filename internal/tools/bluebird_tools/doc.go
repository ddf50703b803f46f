// Package bluebird_tools provides the MCP tools that rewrite Gmail drafts
// and collect feedback on the result.
//
// A session is kept per (account, draftId), so feedback refers to the last
// rewrite of the same draft:
//
//   - bluebird_list_options: available tones and actions
//   - bluebird_rewrite_draft: rewrite a draft in place
//   - bluebird_send_feedback: rate the last rewrite of a draft
//   - bluebird_session_status: inspect a draft's session
package bluebird_tools
