// Package resources provides read-only MCP resources: the tone and action
// options a rewrite accepts, and the sessions the server currently holds.
package resources
