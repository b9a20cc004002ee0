package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/proxy"
)

// NewProxyCmd creates the 'proxy' command and its subcommands.
func NewProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Inspect the Telegram proxy configuration",
	}
	cmd.AddCommand(newProxyCheckCmd())
	return cmd
}

func newProxyCheckCmd() *cobra.Command {
	var targetURL string

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the configured telegram.proxy can reach the Bot API",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := AppCfg.Telegram.Proxy
			out := cmd.OutOrStdout()
			if !p.Configured() {
				fmt.Fprintf(out, "No proxy configured, checking direct connection to %s...\n", targetURL)
			} else {
				fmt.Fprintf(out, "Checking %s proxy %s against %s...\n", p.Type, p.Address, targetURL)
			}

			validator := proxy.NewValidator(proxy.NewHTTPClientFactory())
			if err := validator.Validate(cmd.Context(), p, targetURL); err != nil {
				fmt.Fprintf(out, "Validation failed: %v\n", err)
				return err
			}
			fmt.Fprintln(out, "Proxy validation successful.")
			return nil
		},
	}
	checkCmd.Flags().StringVar(&targetURL, "target-url", proxy.DefaultTarget, "URL to test connectivity against")
	return checkCmd
}
