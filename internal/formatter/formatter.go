package formatter

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/haytac/social-post-bot/internal/social"
)

const statsSeparator = " | "

// Options controls how a Formatter renders posts.
type Options struct {
	// Locale is a BCP 47 tag used for thousands grouping of counters.
	// Empty means English.
	Locale string `mapstructure:"locale"`
	// ExpandShortcodes turns :smile: style aliases in post content into emoji.
	ExpandShortcodes bool `mapstructure:"expand_shortcodes"`
	// SanitizeContent drops HTML from post content that Telegram would reject.
	SanitizeContent bool `mapstructure:"sanitize_content"`
}

// Formatter turns posts into Telegram HTML messages. It holds no mutable
// state and is safe for concurrent use.
type Formatter struct {
	lang   language.Tag
	opts   Options
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

var std = New(Options{})

// New creates a Formatter. An unparseable locale falls back to English.
func New(opts Options) *Formatter {
	lang := language.English
	if opts.Locale != "" {
		tag, err := language.Parse(opts.Locale)
		if err != nil {
			log.Warn().Err(err).Str("locale", opts.Locale).Msg("Invalid formatter locale, defaulting to en")
		} else {
			lang = tag
		}
	}
	return &Formatter{
		lang:   lang,
		opts:   opts,
		policy: telegramPolicy(),
		strip:  bluemonday.StrictPolicy(),
	}
}

// Language reports the locale used for number grouping.
func (f *Formatter) Language() language.Tag {
	return f.lang
}

// FormatPost builds the full chat message for a post. Field values are
// embedded as they are, apart from the content options set in Options;
// callers must pass HTML-safe text.
func (f *Formatter) FormatPost(post *social.Post) string {
	content := f.prepareContent(post.Content)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>\n", PlatformEmoji(post.Platform), strings.ToUpper(post.Platform))
	fmt.Fprintf(&sb, "%s <b>Autor:</b> %s\n", authorEmoji, post.Author)

	if content != "" {
		fmt.Fprintf(&sb, "\n%s <b>Contenido:</b>\n%s\n", contentEmoji, content)
	}

	if stats := f.FormatStats(post); stats != "" {
		fmt.Fprintf(&sb, "\n%s\n", stats)
	}

	fmt.Fprintf(&sb, "\n%s <a href=\"%s\">Ver original</a>", linkEmoji, post.URL)
	return sb.String()
}

// FormatStats joins the counters the post reports, in the order likes,
// shares, comments. It returns "" when none are present.
func (f *Formatter) FormatStats(post *social.Post) string {
	p := message.NewPrinter(f.lang)
	var stats []string
	if post.Likes != nil {
		stats = append(stats, p.Sprintf("%s %d", likesEmoji, *post.Likes))
	}
	if post.Shares != nil {
		stats = append(stats, p.Sprintf("%s %d", sharesEmoji, *post.Shares))
	}
	if post.Comments != nil {
		stats = append(stats, p.Sprintf("%s %d", commentsEmoji, *post.Comments))
	}
	return strings.Join(stats, statsSeparator)
}

// FormatErrorMessage renders a processing failure for a platform. The error
// text is not escaped or truncated.
func FormatErrorMessage(platform, errText string) string {
	return fmt.Sprintf("%s <b>Error al procesar %s</b>\n\n%s %s",
		PlatformEmoji(platform), strings.ToUpper(platform), errorEmoji, errText)
}

// FormatPost formats a post using English number grouping.
func FormatPost(post *social.Post) string {
	return std.FormatPost(post)
}

// FormatStats formats the post counters using English number grouping.
func FormatStats(post *social.Post) string {
	return std.FormatStats(post)
}

// FormatDuration renders seconds as "45s" under a minute and "m:ss" otherwise.
func FormatDuration(totalSeconds int) string {
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	if minutes == 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
