package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/logging"
)

type recordedRequest struct {
	Path   string
	Auth   string
	Cookie string
	Body   map[string]any
}

type fakeService struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	cookie := ""
	if c, err := r.Cookie("bb_session"); err == nil {
		cookie = c.Value
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Cookie: cookie,
		Body:   body,
	})
	status, response := f.status, f.response
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "bb_session", Value: "s1", Path: "/"})
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(response))
}

func (f *fakeService) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

type countingRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (r *countingRecorder) RecordServiceRequest(_ context.Context, _ string, statusCode int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, statusCode)
}

func newTestClient(t *testing.T, f *fakeService, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Rewrite(t *testing.T) {
	f := &fakeService{response: `{"rewrittenHtml":"<p>Hello,</p>"}`}
	c := newTestClient(t, f)

	resp, err := c.Rewrite(context.Background(), RewriteRequest{
		HTML:   "<p>Hi</p>",
		Tone:   draft.ToneMoreFormal,
		Action: draft.ActionRewrite,
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello,</p>", resp.ContentOr("<p>Hi</p>"))

	reqs := f.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1/rewrite", reqs[0].Path)
	assert.Equal(t, map[string]any{
		"html":   "<p>Hi</p>",
		"tone":   "more_formal",
		"action": "rewrite",
	}, reqs[0].Body)
}

func TestClient_Feedback(t *testing.T) {
	f := &fakeService{response: `{"ok":true}`}
	c := newTestClient(t, f)

	rec := draft.Record{Original: "<p>Hi</p>", Rewritten: "<p>Hello,</p>", Tone: draft.ToneDefault, Action: draft.ActionShorter}
	require.NoError(t, c.Feedback(context.Background(), NewFeedbackRequest(draft.VoteUp, rec)))

	reqs := f.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1/feedback", reqs[0].Path)
	assert.Equal(t, map[string]any{
		"vote":          "up",
		"originalHtml":  "<p>Hi</p>",
		"rewrittenHtml": "<p>Hello,</p>",
		"tone":          "default",
		"action":        "shorter",
	}, reqs[0].Body)
}

func TestClient_ForwardsUnknownSelectors(t *testing.T) {
	f := &fakeService{response: `{}`}
	c := newTestClient(t, f)

	_, err := c.Rewrite(context.Background(), RewriteRequest{HTML: "x", Tone: "pirate", Action: "yell"})
	require.NoError(t, err)
	assert.Equal(t, "pirate", f.Requests()[0].Body["tone"])
	assert.Equal(t, "yell", f.Requests()[0].Body["action"])
}

func TestClient_ErrorStatus(t *testing.T) {
	f := &fakeService{status: http.StatusBadGateway, response: `{"error":"upstream"}`}
	rec := &countingRecorder{}
	c := newTestClient(t, f, WithRecorder(rec))

	_, err := c.Rewrite(context.Background(), RewriteRequest{HTML: "x"})

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, EndpointRewrite, svcErr.Endpoint)
	assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)
	assert.Contains(t, svcErr.Body, "upstream")
	assert.Equal(t, []int{http.StatusBadGateway}, rec.codes)

	err = c.Feedback(context.Background(), FeedbackRequest{Vote: draft.VoteDown})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, EndpointFeedback, svcErr.Endpoint)
}

func TestClient_MalformedBody(t *testing.T) {
	f := &fakeService{response: `not json`}
	c := newTestClient(t, f)

	_, err := c.Rewrite(context.Background(), RewriteRequest{HTML: "x"})

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusOK, svcErr.StatusCode)
	assert.Error(t, svcErr.Err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &countingRecorder{}
	c, err := New(url, WithLogger(logging.Discard()), WithRecorder(rec))
	require.NoError(t, err)

	_, err = c.Rewrite(context.Background(), RewriteRequest{HTML: "x"})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, EndpointRewrite, netErr.Endpoint)
	assert.Equal(t, []int{0}, rec.codes)
}

func TestClient_CancelledContext(t *testing.T) {
	c := newTestClient(t, &fakeService{response: `{}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Rewrite(ctx, RewriteRequest{HTML: "x"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Credentials(t *testing.T) {
	f := &fakeService{response: `{}`}
	c := newTestClient(t, f, WithToken("secret-token"))
	ctx := context.Background()

	_, err := c.Rewrite(ctx, RewriteRequest{HTML: "x"})
	require.NoError(t, err)
	require.NoError(t, c.Feedback(ctx, FeedbackRequest{Vote: draft.VoteUp}))

	reqs := f.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer secret-token", reqs[0].Auth)
	assert.Empty(t, reqs[0].Cookie)
	assert.Equal(t, "s1", reqs[1].Cookie, "session cookie should be sent back")
}

func TestNew_BaseURL(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())

	_, err = New("ftp://example.com")
	assert.Error(t, err)
}

func TestRewriteResponse_ContentOr(t *testing.T) {
	tests := []struct {
		name string
		resp RewriteResponse
		want string
	}{
		{"html preferred", RewriteResponse{RewrittenHTML: "<p>a</p>", Rewritten: "b"}, "<p>a</p>"},
		{"plain fallback", RewriteResponse{Rewritten: "b"}, "b"},
		{"empty html falls through", RewriteResponse{RewrittenHTML: "", Rewritten: "b"}, "b"},
		{"echo original", RewriteResponse{}, "orig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.ContentOr("orig"))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "bluebird rewrite: unexpected status 500",
		(&ServiceError{Endpoint: EndpointRewrite, StatusCode: 500}).Error())
	assert.Contains(t, (&NetworkError{Endpoint: EndpointFeedback, Err: errors.New("dial")}).Error(), "dial")
}
