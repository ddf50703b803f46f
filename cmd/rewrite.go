package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/logging"
	"github.com/teemow/bluebird/internal/session"
)

const voteSkip draft.Vote = ""

type rewriteOptions struct {
	target targetFlags
	tone   string
	action string
	vote   string
}

func newRewriteCmd() *cobra.Command {
	var opts rewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite a draft once",
		Long: `Rewrite the body of a local file or a Gmail draft with the Bluebird service.

When --tone or --action is omitted and stdin is a terminal, you are asked for
them. After the rewrite you can rate the result with --vote up|down, or pick a
vote interactively.

Examples:
  bluebird rewrite --file reply.html --tone more_formal --action shorter
  bluebird rewrite --draft r-123456 --account work --vote up`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, opts)
		},
	}

	opts.target.register(cmd)
	cmd.Flags().StringVar(&opts.tone, "tone", "", "Tone: default, more_formal, more_casual, more_direct, more_warm")
	cmd.Flags().StringVar(&opts.action, "action", "", "Action: rewrite, shorter, longer, fix_grammar, summarize")
	cmd.Flags().StringVar(&opts.vote, "vote", "", "Rate the rewrite: up or down")

	return cmd
}

func runRewrite(cmd *cobra.Command, opts rewriteOptions) error {
	if err := opts.target.validate(); err != nil {
		return err
	}
	vote := draft.Vote(opts.vote)
	if vote != voteSkip && !vote.Valid() {
		return fmt.Errorf("invalid vote %q, must be up or down", opts.vote)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	tone, action := cfg.Defaults.Tone, cfg.Defaults.Action
	if opts.tone != "" {
		tone = draft.Tone(opts.tone)
	}
	if opts.action != "" {
		action = draft.Action(opts.action)
	}
	interactive := stdinIsTerminal()
	if interactive && (opts.tone == "" || opts.action == "") {
		if err := selectionForm(&tone, &action).Run(); err != nil {
			return err
		}
	}

	h, err := opts.target.open(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	svc, err := newServiceClient(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctrl := session.NewForHost(h, svc,
		session.WithLogger(logger),
		session.WithSelection(tone, action))

	out := cmd.OutOrStdout()
	logger.Info("rewriting", logging.Tone(string(tone)), logging.Action(string(action)))
	ctrl.RewriteSelected(ctx)

	st := ctrl.State()
	if st.LastDraft == nil {
		return errors.New(st.Status)
	}
	fmt.Fprintf(out, "%s (%s)\n", st.Status, opts.target.describe())
	if !st.LastDraft.Changed() {
		fmt.Fprintln(out, "The service returned the draft unchanged.")
	}

	if opts.vote == "" && interactive {
		if err := voteForm(&vote).Run(); err != nil {
			return err
		}
	}
	return sendVote(ctx, out, ctrl, vote)
}

// sendVote submits vote and waits for it to settle. voteSkip sends nothing.
func sendVote(ctx context.Context, out io.Writer, ctrl *session.Controller, vote draft.Vote) error {
	if vote == voteSkip {
		return nil
	}
	<-ctrl.SubmitFeedback(ctx, vote)
	st := ctrl.State()
	if st.Status == session.StatusFeedbackFailed {
		return errors.New(st.Status)
	}
	fmt.Fprintln(out, st.Status)
	return nil
}

func selectionForm(tone *draft.Tone, action *draft.Action) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[draft.Tone]().
				Title("Tone").
				Options(toneOptions()...).
				Value(tone),
			huh.NewSelect[draft.Action]().
				Title("Action").
				Options(actionOptions()...).
				Value(action),
		),
	)
}

func voteForm(vote *draft.Vote) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[draft.Vote]().
				Title("How was the rewrite?").
				Options(
					huh.NewOption("Skip", voteSkip),
					huh.NewOption("👍 Thumbs up", draft.VoteUp),
					huh.NewOption("👎 Thumbs down", draft.VoteDown),
				).
				Value(vote),
		),
	)
}
