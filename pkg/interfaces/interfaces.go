package interfaces

import (
	"context"

	"github.com/haytac/social-post-bot/internal/social"
)

// FormattedMessagePart represents a piece of a message to be sent.
// At most one of the media URLs is set; Text is then used as the caption.
type FormattedMessagePart struct {
	Text         string `json:"text,omitempty"`
	ParseMode    string `json:"parse_mode,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	AnimationURL string `json:"animation_url,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
}

// Formatter renders posts and errors into chat text and sendable parts.
type Formatter interface {
	FormatPost(post *social.Post) string
	Render(ctx context.Context, post *social.Post) ([]FormattedMessagePart, error)
	RenderError(platform, errText string) []FormattedMessagePart
}

// Notifier sends notifications.
type Notifier interface {
	Send(ctx context.Context, chatID string, parts []FormattedMessagePart) error
	Name() string
}
