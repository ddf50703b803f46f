package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/teemow/bluebird/internal/logging"
)

const (
	// DefaultBaseURL is the production rewriting service.
	DefaultBaseURL = "https://api.bluebird.ai"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// Endpoint names, used in errors, logs and metrics.
	EndpointRewrite  = "rewrite"
	EndpointFeedback = "feedback"

	maxErrorBody = 512
)

// RequestRecorder receives one observation per request.
type RequestRecorder interface {
	RecordServiceRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
}

// Client calls the rewriting service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	timeout    time.Duration
	logger     logging.Logger
	recorder   RequestRecorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as
// the base for tracing and authentication.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithToken attaches token as a bearer credential to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger. Draft content is never logged.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRecorder reports every request to r.
func WithRecorder(r RequestRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// New returns a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		timeout: DefaultTimeout,
		logger:  logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := http.DefaultTransport
	var jar http.CookieJar
	if c.httpClient != nil {
		if c.httpClient.Transport != nil {
			base = c.httpClient.Transport
		}
		jar = c.httpClient.Jar
	}
	if jar == nil {
		// Credentials are included on every call, so the service's session
		// cookies have to survive between rewrite and feedback.
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
	}

	transport := otelhttp.NewTransport(base,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "bluebird " + r.URL.Path
		}),
	)
	var rt http.RoundTripper = transport
	if c.token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	c.httpClient = &http.Client{
		Transport: rt,
		Jar:       jar,
		Timeout:   c.timeout,
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Rewrite asks the service to rewrite req.HTML.
func (c *Client) Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResponse, error) {
	var resp RewriteResponse
	if err := c.post(ctx, EndpointRewrite, "/v1/rewrite", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feedback records a vote on a rewrite. The response body is discarded.
func (c *Client) Feedback(ctx context.Context, req FeedbackRequest) error {
	return c.post(ctx, EndpointFeedback, "/v1/feedback", req, nil)
}

func (c *Client) post(ctx context.Context, endpoint, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	target := c.baseURL.JoinPath(path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record(ctx, endpoint, 0, start)
		c.logger.Warn("bluebird request failed",
			logging.Endpoint(endpoint),
			logging.Err(err))
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	c.record(ctx, endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("bluebird returned an error status",
			logging.Endpoint(endpoint),
			logging.StatusCode(resp.StatusCode))
		return &ServiceError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("bluebird request completed",
		logging.Endpoint(endpoint),
		logging.StatusCode(resp.StatusCode),
		logging.ContentSize(len(body)))
	return nil
}

func (c *Client) record(ctx context.Context, endpoint string, statusCode int, start time.Time) {
	if c.recorder != nil {
		c.recorder.RecordServiceRequest(ctx, endpoint, statusCode, time.Since(start))
	}
}
