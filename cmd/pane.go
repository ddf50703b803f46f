package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/pane"
	"github.com/teemow/bluebird/internal/session"
)

func newPaneCmd() *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "pane",
		Short: "Open the interactive rewrite pane for a draft",
		Long: `Open a terminal pane over one draft. Pick a tone and an action, rewrite as
often as you like and rate the latest result with thumbs up or down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := target.validate(); err != nil {
				return err
			}
			if !stdinIsTerminal() {
				return fmt.Errorf("the pane needs an interactive terminal, use 'bluebird rewrite' instead")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, _, err := loadRuntime()
			if err != nil {
				return err
			}
			logger := quietLogger()

			h, err := target.open(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg, logger, nil)
			if err != nil {
				return err
			}

			observe, changes := pane.Notifier()
			ctrl := session.NewForHost(h, svc,
				session.WithLogger(logger),
				session.WithObserver(observe),
				session.WithSelection(cfg.Defaults.Tone, cfg.Defaults.Action))

			err = pane.Run(ctx, ctrl, changes)
			ctrl.Wait()
			return err
		},
	}

	target.register(cmd)
	return cmd
}
