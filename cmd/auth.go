package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account for Gmail drafts",
		Long: `Authorize bluebird to read and update Gmail drafts for an account.

The command prints an authorization URL. Open it, approve access and paste the
code back. Tokens are stored per account in the user cache directory.

The OAuth client is read from gmail.client_id/gmail.client_secret in the config
file or from GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRuntime()
			if err != nil {
				return err
			}
			if account == "" {
				account = cfg.Gmail.Account
			}

			creds := cfg.Gmail.Credentials()
			if creds.ClientID == "" {
				return errors.New("google client ID is not configured; set GOOGLE_CLIENT_ID or gmail.client_id")
			}
			provider := google.NewFileTokenProvider(creds)

			if code == "" {
				url, err := google.GetAuthURLForAccount(provider.Config, account)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Visit this URL to authorize account %q:\n\n%s\n\n", account, url)

				code, err = readAuthCode(cmd)
				if err != nil {
					return err
				}
			}

			if err := google.SaveTokenForAccount(cmd.Context(), provider.Config, provider.Store, account, code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q authorized. Token stored in %s\n", account, provider.Store.Path(account))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account name (default: gmail.account from config)")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code, skips the prompt")
	return cmd
}

func readAuthCode(cmd *cobra.Command) (string, error) {
	var code string
	if stdinIsTerminal() {
		err := huh.NewInput().
			Title("Authorization code").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("code is required")
				}
				return nil
			}).
			Value(&code).
			Run()
		return code, err
	}

	fmt.Fprint(cmd.OutOrStdout(), "Authorization code: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	return strings.TrimSpace(line), nil
}
