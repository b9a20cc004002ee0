package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haytac/social-post-bot/internal/social"
)

var (
	// PostsFormatted counts posts rendered into Telegram messages.
	PostsFormatted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbot_posts_formatted_total",
			Help: "Total number of social media posts formatted for Telegram.",
		},
		[]string{"platform", "media_type"}, // media_type: image, video, gif, none
	)

	// ErrorsRendered counts error messages rendered for a platform.
	ErrorsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbot_errors_rendered_total",
			Help: "Total number of processing error messages rendered.",
		},
		[]string{"platform"},
	)

	// TelegramAPICalls counts calls to Telegram API.
	TelegramAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbot_telegram_api_calls_total",
			Help: "Total number of Telegram API calls.",
		},
		[]string{"method", "status"}, // method: sendMessage, sendPhoto, ...; status: success, error
	)

	// HTTPRequests counts API requests by route and status code class.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbot_http_requests_total",
			Help: "Total number of HTTP API requests.",
		},
		[]string{"route", "code"},
	)
)

// PlatformLabel keeps label cardinality bounded: platforms outside the
// known set are reported as "other".
func PlatformLabel(platform string) string {
	switch platform {
	case social.PlatformTwitter, social.PlatformInstagram, social.PlatformTikTok:
		return platform
	default:
		return "other"
	}
}

// Handler exposes the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
