package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teemow/bluebird/internal/config"
	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/gmail"
	"github.com/teemow/bluebird/internal/google"
	"github.com/teemow/bluebird/internal/host"
	"github.com/teemow/bluebird/internal/instrumentation"
	"github.com/teemow/bluebird/internal/logging"
	"github.com/teemow/bluebird/internal/server"
	"github.com/teemow/bluebird/internal/service"
)

// targetFlags selects the document a command edits: a local file or a
// Gmail draft.
type targetFlags struct {
	file    string
	output  string
	draftID string
	account string
}

func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.file, "file", "", "HTML or Markdown file to rewrite")
	cmd.Flags().StringVar(&t.output, "output", "", "Where to write the rewritten HTML for Markdown files (default: <file>.html)")
	cmd.Flags().StringVar(&t.draftID, "draft", "", "Gmail draft ID to rewrite")
	cmd.Flags().StringVar(&t.account, "account", "", "Google account name for --draft (default: gmail.account from config)")
}

func (t *targetFlags) validate() error {
	switch {
	case t.file == "" && t.draftID == "":
		return errors.New("one of --file or --draft is required")
	case t.file != "" && t.draftID != "":
		return errors.New("--file and --draft are mutually exclusive")
	case t.output != "" && t.file == "":
		return errors.New("--output only applies to --file")
	}
	return nil
}

// describe names the target for status output.
func (t *targetFlags) describe() string {
	if t.file != "" {
		return t.file
	}
	return "draft " + t.draftID
}

// open returns the host for the target.
func (t *targetFlags) open(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) (host.AsyncHost, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.file != "" {
		var opts []host.FileOption
		if t.output != "" {
			opts = append(opts, host.WithOutputPath(t.output))
		}
		return host.NewFile(t.file, opts...), nil
	}

	account := t.account
	if account == "" {
		account = cfg.Gmail.Account
	}
	provider := google.NewFileTokenProvider(cfg.Gmail.Credentials())
	hosts := server.NewGmailHosts(provider, logger, gmail.WithOperationRecorder(metrics))
	return hosts.Open(ctx, account, t.draftID)
}

// newServiceClient builds the rewriting service client from cfg.
func newServiceClient(cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) (*service.Client, error) {
	opts := []service.Option{
		service.WithTimeout(cfg.Service.Timeout),
		service.WithLogger(logger),
		service.WithRecorder(metrics),
	}
	if cfg.Service.Token != "" {
		opts = append(opts, service.WithToken(cfg.Service.Token))
	}
	client, err := service.New(cfg.Service.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service client: %w", err)
	}
	return client, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func toneOptions() []huh.Option[draft.Tone] {
	var opts []huh.Option[draft.Tone]
	for _, o := range draft.Tones() {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	return opts
}

func actionOptions() []huh.Option[draft.Action] {
	var opts []huh.Option[draft.Action]
	for _, o := range draft.Actions() {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	return opts
}

// quietLogger drops log output unless --debug is set, so log lines do not
// draw over the pane.
func quietLogger() *slog.Logger {
	if debugMode {
		return slog.Default()
	}
	return logging.Discard()
}
