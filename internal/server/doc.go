// Package server holds the state shared by the MCP front end.
//
// ServerContext keeps one rewrite session per (account, draft). Sessions are
// created on first use through a HostFactory, usually GmailHosts, and evicted
// after a period without use. Pending feedback is allowed to settle before a
// session is dropped.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed for the
// streamable HTTP transport. MetricsServer serves prometheus metrics on a
// dedicated port.
package server
