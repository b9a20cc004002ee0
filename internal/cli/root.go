package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/config"
	"github.com/haytac/social-post-bot/internal/logging"
	"github.com/haytac/social-post-bot/internal/social"
)

var (
	cfgFile string
	dryRun  bool
	locale  string
	AppCfg  *config.AppConfig // populated in PersistentPreRunE
)

// RootCmd is the entry point of the social-post-bot CLI.
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "social-post-bot",
		Short: "Format social media posts as Telegram messages and deliver them.",
		Long: `social-post-bot turns twitter, instagram, tiktok and other posts into
emoji-decorated Telegram HTML messages. Posts are read as JSON from a file or stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			AppCfg = loadedCfg

			logging.Setup(AppCfg.Log)
			AppCfg.DryRun = dryRun
			if cmd.Flags().Changed("locale") {
				AppCfg.Formatter.Locale = locale
			}
			log.Debug().Str("locale", AppCfg.Formatter.Locale).Bool("dry_run", AppCfg.DryRun).Msg("Configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, $HOME/.social-post-bot/config.yaml)")
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "render messages but do not send them to Telegram")
	root.PersistentFlags().StringVar(&locale, "locale", "", "BCP 47 locale for number grouping (overrides formatter.locale)")

	root.AddCommand(NewFormatCmd())
	root.AddCommand(NewErrorCmd())
	root.AddCommand(NewMediaCmd())
	root.AddCommand(NewSendCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewProxyCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readPost decodes a post from the file named in args, or stdin when the
// argument is missing or "-".
func readPost(cmd *cobra.Command, args []string) (*social.Post, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening post file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return social.DecodePost(r)
}
