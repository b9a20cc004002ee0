package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/haytac/social-post-bot/internal/metrics"
	"github.com/haytac/social-post-bot/internal/proxy"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

const (
	telegramMaxMessageLength = 4096
	globalMessagesPerSecond  = 25
	chatMessagesPerSecond    = 1
)

// ErrNoBotToken is returned by Send when no bot token is configured.
var ErrNoBotToken = errors.New("telegram: bot token is not configured")

// sender is the part of tgbotapi.BotAPI the client needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client wraps the Telegram Bot API client with rate limiting.
type Client struct {
	botToken      string
	proxy         *proxy.Config
	clientFactory *proxy.DefaultHTTPClientFactory

	bot   sender
	botMu sync.Mutex

	globalLimiter  *rate.Limiter
	chatLimit      rate.Limit
	chatLimiters   map[string]*rate.Limiter
	chatLimitersMu sync.Mutex
}

// NewClient creates a new Telegram client. The Bot API is contacted lazily
// on the first Send.
func NewClient(botToken string, p *proxy.Config, clientFactory *proxy.DefaultHTTPClientFactory) *Client {
	return &Client{
		botToken:      botToken,
		proxy:         p,
		clientFactory: clientFactory,
		globalLimiter: rate.NewLimiter(rate.Limit(globalMessagesPerSecond), globalMessagesPerSecond*2),
		chatLimit:     rate.Limit(chatMessagesPerSecond),
		chatLimiters:  make(map[string]*rate.Limiter),
	}
}

func (c *Client) getBot() (sender, error) {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	if c.bot != nil {
		return c.bot, nil
	}
	if c.botToken == "" {
		return nil, ErrNoBotToken
	}
	httpClient, err := c.clientFactory.GetClient(c.proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to get HTTP client for Telegram bot: %w", err)
	}
	api, err := tgbotapi.NewBotAPIWithClient(c.botToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API instance: %w", err)
	}
	log.Info().Str("bot_username", api.Self.UserName).Msg("Telegram bot authorized")
	c.bot = api
	return api, nil
}

func (c *Client) getChatLimiter(chatID string) *rate.Limiter {
	c.chatLimitersMu.Lock()
	defer c.chatLimitersMu.Unlock()
	limiter, exists := c.chatLimiters[chatID]
	if !exists {
		limiter = rate.NewLimiter(c.chatLimit, chatMessagesPerSecond*2)
		c.chatLimiters[chatID] = limiter
	}
	return limiter
}

// Send delivers parts to chatID in order. A non-numeric chat ID is treated
// as a channel username such as "@news".
func (c *Client) Send(ctx context.Context, chatID string, parts []interfaces.FormattedMessagePart) error {
	bot, err := c.getBot()
	if err != nil {
		return fmt.Errorf("getting bot API: %w", err)
	}

	operationLogger := log.With().Str("chat_id", chatID).Logger()
	chatLimiter := c.getChatLimiter(chatID)

	for i, part := range expandLongText(parts) {
		partLogger := operationLogger.With().Int("part_index", i).Logger()
		msg, method, ok := buildChattable(chatID, part)
		if !ok {
			partLogger.Warn().Msg("Skipping message part: no text or media URL provided.")
			continue
		}

		if err := c.globalLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("global rate limiter wait: %w", err)
		}
		if err := chatLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("chat rate limiter wait for %s: %w", chatID, err)
		}

		if _, err := bot.Send(msg); err != nil {
			metrics.TelegramAPICalls.WithLabelValues(method, "error").Inc()
			partLogger.Error().Err(err).Str("method", method).Msg("Failed to send message to Telegram")
			return fmt.Errorf("sending message part to chat '%s': %w", chatID, err)
		}
		metrics.TelegramAPICalls.WithLabelValues(method, "success").Inc()
		partLogger.Debug().Str("method", method).Msg("Message part sent successfully")
	}
	return nil
}

func baseChat(chatID string) tgbotapi.BaseChat {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.BaseChat{ChatID: id}
	}
	return tgbotapi.BaseChat{ChannelUsername: chatID}
}

// buildChattable maps a part to the Bot API request for it and the API
// method name used in metrics.
func buildChattable(chatID string, part interfaces.FormattedMessagePart) (tgbotapi.Chattable, string, bool) {
	chat := baseChat(chatID)
	switch {
	case part.PhotoURL != "":
		return tgbotapi.PhotoConfig{
			BaseFile:  tgbotapi.BaseFile{BaseChat: chat, File: tgbotapi.FileURL(part.PhotoURL)},
			Caption:   part.Text,
			ParseMode: part.ParseMode,
		}, "sendPhoto", true
	case part.VideoURL != "":
		return tgbotapi.VideoConfig{
			BaseFile:  tgbotapi.BaseFile{BaseChat: chat, File: tgbotapi.FileURL(part.VideoURL)},
			Caption:   part.Text,
			ParseMode: part.ParseMode,
		}, "sendVideo", true
	case part.AnimationURL != "":
		return tgbotapi.AnimationConfig{
			BaseFile:  tgbotapi.BaseFile{BaseChat: chat, File: tgbotapi.FileURL(part.AnimationURL)},
			Caption:   part.Text,
			ParseMode: part.ParseMode,
		}, "sendAnimation", true
	case part.DocumentURL != "":
		return tgbotapi.DocumentConfig{
			BaseFile:  tgbotapi.BaseFile{BaseChat: chat, File: tgbotapi.FileURL(part.DocumentURL)},
			Caption:   part.Text,
			ParseMode: part.ParseMode,
		}, "sendDocument", true
	case part.Text != "":
		return tgbotapi.MessageConfig{
			BaseChat:  chat,
			Text:      part.Text,
			ParseMode: part.ParseMode,
		}, "sendMessage", true
	}
	return nil, "", false
}

// expandLongText splits text-only parts that exceed the message limit.
func expandLongText(parts []interfaces.FormattedMessagePart) []interfaces.FormattedMessagePart {
	out := make([]interfaces.FormattedMessagePart, 0, len(parts))
	for _, p := range parts {
		if p.PhotoURL == "" && p.VideoURL == "" && p.AnimationURL == "" && p.DocumentURL == "" {
			out = append(out, SplitMessage(p.Text, p.ParseMode)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// SplitMessage cuts text into parts of at most telegramMaxMessageLength
// characters. HTML text is cut between tags, preferring line breaks, and
// elements open at a cut are closed and reopened in the next part.
func SplitMessage(text, parseMode string) []interfaces.FormattedMessagePart {
	if parseMode == tgbotapi.ModeHTML {
		chunks := splitHTML(text, telegramMaxMessageLength)
		parts := make([]interfaces.FormattedMessagePart, 0, len(chunks))
		for _, c := range chunks {
			parts = append(parts, interfaces.FormattedMessagePart{Text: c, ParseMode: parseMode})
		}
		if len(parts) > 1 {
			log.Warn().Int("original_len", len(text)).Int("num_parts", len(parts)).Msg("HTML message split due to length")
		}
		return parts
	}

	runes := []rune(text)
	if len(runes) <= telegramMaxMessageLength {
		return []interfaces.FormattedMessagePart{{Text: text, ParseMode: parseMode}}
	}
	var parts []interfaces.FormattedMessagePart
	for start := 0; start < len(runes); start += telegramMaxMessageLength {
		end := start + telegramMaxMessageLength
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, interfaces.FormattedMessagePart{Text: string(runes[start:end]), ParseMode: parseMode})
	}
	log.Warn().Int("original_len_runes", len(runes)).Int("num_parts", len(parts)).Msg("Message split due to length")
	return parts
}

// Name identifies the notifier in logs and metrics.
func (c *Client) Name() string {
	return "telegram"
}
