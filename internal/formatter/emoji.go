package formatter

import (
	"github.com/kyokomi/emoji/v2"

	"github.com/haytac/social-post-bot/internal/social"
)

const defaultPlatformEmoji = "📱"

var platformEmojis = map[string]string{
	social.PlatformTwitter:   "🐦",
	social.PlatformInstagram: "📷",
	social.PlatformTikTok:    "🎵",
}

const (
	authorEmoji   = "👤"
	contentEmoji  = "📝"
	likesEmoji    = "❤️"
	sharesEmoji   = "🔄"
	commentsEmoji = "💬"
	linkEmoji     = "🔗"
	errorEmoji    = "❌"
	durationEmoji = "⏱"
)

// PlatformEmoji returns the symbol shown next to a platform name.
// Lookup is exact and case-sensitive; unknown platforms get a generic phone.
func PlatformEmoji(platform string) string {
	if e, ok := platformEmojis[platform]; ok {
		return e
	}
	return defaultPlatformEmoji
}

// expandShortcodes replaces :alias: shortcodes with their emoji.
func expandShortcodes(text string) string {
	return emoji.Sprint(text)
}
