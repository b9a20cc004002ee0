package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/app"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for formatting and sending posts",
		Long:  `This command starts an HTTP server exposing /v1/format, /v1/errors, /v1/send, /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				log.Error().Msg("Configuration (AppCfg) not loaded in 'serve' command.")
				return fmt.Errorf("critical: AppCfg not loaded")
			}
			if cmd.Flags().Changed("listen") {
				AppCfg.ListenAddr = listenAddr
			}

			application, err := app.NewApplication(AppCfg)
			if err != nil {
				log.Error().Err(err).Msg("Failed to initialize application")
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return application.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (overrides listen_addr)")
	return cmd
}
