package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haytac/social-post-bot/internal/config"
	"github.com/haytac/social-post-bot/internal/formatter"
	"github.com/haytac/social-post-bot/internal/proxy"
	"github.com/haytac/social-post-bot/internal/server"
	"github.com/haytac/social-post-bot/internal/social"
	"github.com/haytac/social-post-bot/internal/telegram"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

const shutdownTimeout = 10 * time.Second

// ErrNoChatID is returned when neither the caller nor the config names a chat.
var ErrNoChatID = errors.New("no chat ID given and telegram.default_chat_id is not set")

// Application holds all dependencies for the app.
type Application struct {
	Config    *config.AppConfig
	Formatter *formatter.Formatter
	Notifier  interfaces.Notifier
	Server    *server.Server
}

// NewApplication creates and initializes a new application instance.
func NewApplication(cfg *config.AppConfig) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}
	if cfg.Telegram.BotToken == "" && !cfg.DryRun {
		log.Warn().Msg("Configuration 'telegram.bot_token' (or SOCIAL_BOT_TELEGRAM_BOT_TOKEN env var) is not set. Sending will fail.")
	}

	f := formatter.New(cfg.Formatter)
	notifier := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Proxy, proxy.NewHTTPClientFactory())

	return &Application{
		Config:    cfg,
		Formatter: f,
		Notifier:  notifier,
		Server: server.New(f, notifier, server.Options{
			DefaultChatID: cfg.Telegram.DefaultChatID,
			DryRun:        cfg.DryRun,
		}),
	}, nil
}

// Deliver renders post and sends it to chatID, or to the configured default
// chat when chatID is empty. It returns the number of message parts.
func (app *Application) Deliver(ctx context.Context, chatID string, post *social.Post) (int, error) {
	if chatID == "" {
		chatID = app.Config.Telegram.DefaultChatID
	}
	if chatID == "" {
		return 0, ErrNoChatID
	}

	parts, err := app.Formatter.Render(ctx, post)
	if err != nil {
		return 0, fmt.Errorf("rendering post: %w", err)
	}

	l := log.With().Str("chat_id", chatID).Str("platform", post.Platform).Logger()
	if app.Config.DryRun {
		l.Info().Interface("formatted_parts", parts).Msg("[DRY RUN] Would send formatted post")
		return len(parts), nil
	}
	if err := app.Notifier.Send(ctx, chatID, parts); err != nil {
		return 0, fmt.Errorf("sending via %s: %w", app.Notifier.Name(), err)
	}
	l.Info().Int("parts", len(parts)).Msg("Post delivered")
	return len(parts), nil
}

// Run serves the HTTP API until the context is cancelled or a shutdown
// signal arrives.
func (app *Application) Run(ctx context.Context) error {
	log.Info().Str("address", app.Config.ListenAddr).Msg("Starting HTTP API")

	srv := &http.Server{
		Addr:              app.Config.ListenAddr,
		Handler:           app.Server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		log.Info().Str("signal", s.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Application context done, shutting down")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	log.Info().Msg("Application shut down gracefully.")
	return nil
}
