package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/auth"
	"github.com/spf13/cobra"
)

func newLoginCommand(deps Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the ClickUp API key in the OS keyring",
		Long: `Store the ClickUp API key in the OS keyring.

The key is taken from --api-key, or read from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := strings.TrimSpace(opts.apiKey)
			if apiKey == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "ClickUp API key: ")
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					apiKey = strings.TrimSpace(scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}
			}
			if apiKey == "" {
				return errors.New("API key is empty")
			}

			if err := deps.Keyring.Set(keyringService, keyringUser, apiKey); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stored ClickUp API key in the keyring")
			return nil
		},
	}
}

func newLogoutCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the ClickUp API key from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := deps.Keyring.Delete(keyringService, keyringUser)
			if errors.Is(err, ErrKeyringKeyMissing) {
				fmt.Fprintln(cmd.OutOrStdout(), "No ClickUp API key stored")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to remove API key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed ClickUp API key from the keyring")
			return nil
		},
	}
}

func newTokenCommand(deps Dependencies) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the dashboard write endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signingSecret := envOrFlag(secret, deps, "JWT_SECRET")
			if signingSecret == "" {
				return errors.New("no signing secret (use --secret or JWT_SECRET)")
			}

			token, err := auth.NewService(signingSecret, deps.NowFunc).IssueToken(subject, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Operator the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (default $JWT_SECRET)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
