package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/gmail"
	"github.com/teemow/bluebird/internal/google"
)

func newDraftsCmd() *cobra.Command {
	var (
		account string
		limit   int64
	)

	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List Gmail drafts that can be rewritten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRuntime()
			if err != nil {
				return err
			}
			if account == "" {
				account = cfg.Gmail.Account
			}

			provider := google.NewFileTokenProvider(cfg.Gmail.Credentials())
			client, err := gmail.NewClientForAccount(cmd.Context(), provider, account)
			if err != nil {
				return err
			}
			drafts, err := client.ListDrafts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No drafts.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DRAFT\tTHREAD\tSNIPPET")
			for _, d := range drafts {
				var thread, snippet string
				if d.Message != nil {
					thread, snippet = d.Message.ThreadId, d.Message.Snippet
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Id, thread, snippet)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account name (default: gmail.account from config)")
	cmd.Flags().Int64Var(&limit, "limit", 20, "Maximum number of drafts to list")
	return cmd
}
