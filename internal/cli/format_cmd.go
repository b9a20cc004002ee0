package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/formatter"
)

// NewFormatCmd creates the format command.
func NewFormatCmd() *cobra.Command {
	var asParts bool

	cmd := &cobra.Command{
		Use:   "format [post.json|-]",
		Short: "Print the Telegram message for a post",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := readPost(cmd, args)
			if err != nil {
				return err
			}
			f := formatter.New(AppCfg.Formatter)

			if !asParts {
				fmt.Fprintln(cmd.OutOrStdout(), f.FormatPost(post))
				return nil
			}
			parts, err := f.Render(cmd.Context(), post)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(parts)
		},
	}
	cmd.Flags().BoolVar(&asParts, "parts", false, "print the message parts that would be sent, as JSON")
	return cmd
}

// NewErrorCmd creates the error command.
func NewErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "error <platform> <message>",
		Short: "Print the error message shown when a post cannot be processed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatErrorMessage(args[0], args[1]))
			return nil
		},
	}
}
