package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd(o *rootOptions) *cobra.Command {
	var (
		generate  bool
		serverURL string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show dashboard URL with access token",
		Long: `Show the dashboard URL with the configured access token, or generate a
new random token to put in AB_TOKEN.

Examples:
  abtest token
  abtest token --generate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if generate {
				token, err := newToken()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "AB_TOKEN=%s\n", token)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Add this to your environment or .env file, then restart 'abtest serve'.")
				return nil
			}

			token := o.cfg.Server.Token
			if token == "" {
				return fmt.Errorf("no token configured. Set AB_TOKEN or run: abtest token --generate")
			}
			if serverURL == "" {
				serverURL = fmt.Sprintf("http://localhost:%d", o.cfg.Server.Port)
			}

			fmt.Fprintln(out, dashboardURL(serverURL, token))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Tip: Bookmark this URL or run 'abtest token' anytime.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a new random token")
	cmd.Flags().StringVar(&serverURL, "url", "", "public server URL (default http://localhost:<AB_PORT>)")

	return cmd
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func dashboardURL(serverURL, token string) string {
	if token == "" {
		return "Dashboard: " + serverURL + "/dashboard"
	}
	return fmt.Sprintf("Dashboard: %s/dashboard?token=%s", serverURL, token)
}
