package devservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/instrumentation"
	"github.com/teemow/bluebird/internal/logging"
	"github.com/teemow/bluebird/internal/service"
)

// DefaultAddr is where the dev service listens unless told otherwise.
const DefaultAddr = "127.0.0.1:8787"

// Server serves the rewrite and feedback endpoints.
type Server struct {
	rewriter Rewriter
	token    string
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	router   *gin.Engine

	mu    sync.Mutex
	votes map[draft.Vote]int
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires requests to carry "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records every request to m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New returns a Server backed by rewriter.
func New(rewriter Rewriter, opts ...Option) *Server {
	s := &Server{
		rewriter: rewriter,
		logger:   slog.Default(),
		votes:    make(map[draft.Vote]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithComponent(s.logger, "devservice")

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.observe())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/v1", s.authorize())
	v1.POST("/rewrite", s.handleRewrite)
	v1.POST("/feedback", s.handleFeedback)
	v1.GET("/feedback/stats", s.handleFeedbackStats)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Votes returns how many votes of each kind were received.
func (s *Server) Votes() map[draft.Vote]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[draft.Vote]int, len(s.votes))
	for k, v := range s.votes {
		out[k] = v
	}
	return out
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dev service listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("devservice: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRewrite(c *gin.Context) {
	var req service.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !req.Tone.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown tone %q", req.Tone)})
		return
	}
	if !req.Action.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown action %q", req.Action)})
		return
	}

	out, err := s.rewriter.Rewrite(c.Request.Context(), req.HTML, req.Tone, req.Action)
	if err != nil {
		s.logger.Error("rewrite failed",
			logging.Tone(string(req.Tone)),
			logging.Action(string(req.Action)),
			logging.Err(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "rewrite failed"})
		return
	}

	s.logger.Info("rewrote draft",
		logging.Tone(string(req.Tone)),
		logging.Action(string(req.Action)),
		logging.ContentSize(len(req.HTML)),
		slog.Int("rewritten_bytes", len(out)))
	c.JSON(http.StatusOK, service.RewriteResponse{RewrittenHTML: out})
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !req.Vote.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown vote %q", req.Vote)})
		return
	}

	s.mu.Lock()
	s.votes[req.Vote]++
	s.mu.Unlock()

	s.logger.Info("feedback received",
		logging.Vote(string(req.Vote)),
		logging.Tone(string(req.Tone)),
		logging.Action(string(req.Action)),
		slog.Bool("changed", req.OriginalHTML != req.RewrittenHTML))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFeedbackStats(c *gin.Context) {
	votes := s.Votes()
	c.JSON(http.StatusOK, gin.H{
		"up":   votes[draft.VoteUp],
		"down": votes[draft.VoteDown],
	})
}

func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || got != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

// observe logs and records every request.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.RecordHTTPRequest(c.Request.Context(), c.Request.Method, path, status, time.Since(start))
		s.logger.Debug("request served",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			logging.StatusCode(status),
			slog.Duration(logging.KeyDuration, time.Since(start)))
	}
}
