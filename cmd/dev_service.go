package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/devservice"
	"github.com/teemow/bluebird/internal/instrumentation"
)

type devServiceOptions struct {
	addr          string
	token         string
	openAIModel   string
	openAIBaseURL string
	metricsAddr   string
}

func newDevServiceCmd() *cobra.Command {
	var opts devServiceOptions

	cmd := &cobra.Command{
		Use:   "dev-service",
		Short: "Run a local stand-in for the rewriting service",
		Long: `Run a local rewriting service for development and testing. It serves
POST /v1/rewrite, POST /v1/feedback and GET /healthz.

Rewrites go through an OpenAI chat model when OPENAI_API_KEY is set, and through
a deterministic text transform otherwise. Point bluebird at it with
BLUEBIRD_BASE_URL=http://127.0.0.1:8787.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				opts.token = os.Getenv("BLUEBIRD_TOKEN")
			}
			return runDevService(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", devservice.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&opts.token, "token", "", "Require this bearer token (default: BLUEBIRD_TOKEN env var)")
	cmd.Flags().StringVar(&opts.openAIModel, "openai-model", devservice.DefaultOpenAIModel, "OpenAI chat model")
	cmd.Flags().StringVar(&opts.openAIBaseURL, "openai-base-url", "", "OpenAI-compatible API base URL (default: OPENAI_BASE_URL or api.openai.com)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runDevService(ctx context.Context, opts devServiceOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slogHandler())
	slog.SetDefault(logger)

	rewriter, err := devRewriter(opts, logger)
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceName = "bluebird-dev-service"
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	if opts.metricsAddr != "" {
		metricsServer, err := startMetricsServer(opts.metricsAddr, provider)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	srv := devservice.New(rewriter,
		devservice.WithToken(opts.token),
		devservice.WithLogger(logger),
		devservice.WithMetrics(provider.Metrics()))
	return srv.Run(ctx, opts.addr)
}

func devRewriter(opts devServiceOptions, logger *slog.Logger) (devservice.Rewriter, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Info("OPENAI_API_KEY not set, using the deterministic rewriter")
		return devservice.Deterministic{}, nil
	}

	baseURL := opts.openAIBaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	rw, err := devservice.NewOpenAIRewriter(devservice.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   opts.openAIModel,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("using OpenAI rewriter", "model", rw.Model())
	return rw, nil
}
