// Package service is the HTTP client for the Bluebird rewriting service.
//
// The service exposes two JSON endpoints:
//
//	POST {base}/v1/rewrite   {html, tone, action}        -> {rewrittenHtml?, rewritten?}
//	POST {base}/v1/feedback  {vote, originalHtml, rewrittenHtml, tone, action}
//
// Requests carry the session cookies the service has set and, when a token is
// configured, an Authorization bearer header. A non-2xx answer is reported as
// *ServiceError and a transport failure as *NetworkError. Nothing is retried.
package service
