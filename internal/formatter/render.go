package formatter

import (
	"context"
	"errors"
	"html"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/haytac/social-post-bot/internal/metrics"
	"github.com/haytac/social-post-bot/internal/social"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

const (
	defaultParseMode = tgbotapi.ModeHTML
	// Telegram rejects media captions longer than this many UTF-16 code
	// units, counted after markup is parsed.
	captionLimit = 1024
)

var errNilPost = errors.New("formatter: nil post")

// telegramPolicy allows only the HTML subset the Bot API understands.
func telegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// captionLength measures text the way the Bot API does: tags removed,
// entities decoded, in UTF-16 code units.
func (f *Formatter) captionLength(text string) int {
	visible := html.UnescapeString(f.strip.Sanitize(text))
	return len(utf16.Encode([]rune(visible)))
}

func (f *Formatter) prepareContent(content string) string {
	if content == "" {
		return content
	}
	if f.opts.ExpandShortcodes {
		content = expandShortcodes(content)
	}
	if f.opts.SanitizeContent {
		content = f.policy.Sanitize(content)
	}
	return content
}

// Render turns a post into message parts. Posts with media are sent as the
// matching media message with the formatted text as caption.
func (f *Formatter) Render(ctx context.Context, post *social.Post) ([]interfaces.FormattedMessagePart, error) {
	if post == nil {
		return nil, errNilPost
	}
	l := zerolog.Ctx(ctx).With().Str("platform", post.Platform).Str("post_url", post.URL).Logger()

	text := f.FormatPost(post)

	mediaType, ok := MainMediaType(post)
	mediaLabel := string(mediaType)
	if !ok {
		mediaLabel = "none"
	}
	metrics.PostsFormatted.WithLabelValues(metrics.PlatformLabel(post.Platform), mediaLabel).Inc()
	if !ok {
		return []interfaces.FormattedMessagePart{{Text: text, ParseMode: defaultParseMode}}, nil
	}

	first := post.Media[0]
	media := interfaces.FormattedMessagePart{ParseMode: defaultParseMode}
	switch mediaType {
	case social.MediaImage:
		media.PhotoURL = first.URL
	case social.MediaVideo:
		media.VideoURL = first.URL
	case social.MediaGIF:
		media.AnimationURL = first.URL
	default:
		l.Warn().Str("media_type", string(mediaType)).Msg("Unknown media type, sending text only")
		return []interfaces.FormattedMessagePart{{Text: text, ParseMode: defaultParseMode}}, nil
	}

	if first.Duration != nil && mediaType != social.MediaImage {
		text += "\n" + durationEmoji + " " + FormatDuration(*first.Duration)
	}

	n := f.captionLength(text)
	if n <= captionLimit {
		media.Text = text
		return []interfaces.FormattedMessagePart{media}, nil
	}
	l.Debug().Int("caption_length", n).Msg("Caption too long, sending text separately")
	return []interfaces.FormattedMessagePart{media, {Text: text, ParseMode: defaultParseMode}}, nil
}

// RenderError renders a processing failure as a single text part.
func (f *Formatter) RenderError(platform, errText string) []interfaces.FormattedMessagePart {
	metrics.ErrorsRendered.WithLabelValues(metrics.PlatformLabel(platform)).Inc()
	return []interfaces.FormattedMessagePart{{Text: FormatErrorMessage(platform, errText), ParseMode: defaultParseMode}}
}
