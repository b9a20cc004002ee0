package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/app"
)

// NewSendCmd creates the send command.
func NewSendCmd() *cobra.Command {
	var chatID string

	cmd := &cobra.Command{
		Use:   "send [post.json|-]",
		Short: "Format a post and send it to a Telegram chat",
		Long: `Format a post and send it to a Telegram chat. The chat defaults to
telegram.default_chat_id; numeric IDs address chats, anything else a channel username.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := readPost(cmd, args)
			if err != nil {
				return err
			}
			application, err := app.NewApplication(AppCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			n, err := application.Deliver(cmd.Context(), chatID, post)
			if err != nil {
				return err
			}
			if AppCfg.DryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "[dry run] %d message part(s) rendered.\n", n)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d message part(s).\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&chatID, "chat", "", "target chat ID or @channel (default telegram.default_chat_id)")
	return cmd
}
