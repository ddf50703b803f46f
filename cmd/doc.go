// Package cmd implements the command-line interface for bluebird.
//
// This package provides the following commands:
//   - rewrite: Rewrite a draft once and optionally rate the result
//   - pane: Interactive terminal pane over one draft
//   - serve: Start the MCP server to provide tools for AI assistants
//   - dev-service: Run a local stand-in for the rewriting service
//   - auth: Authorize a Google account for Gmail drafts
//   - drafts: List Gmail drafts of an account
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
