package social

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Known platform identifiers. Any other string is accepted as a platform.
const (
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
)

// MediaType is the kind of an attached media item.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaGIF   MediaType = "gif"
)

// ErrEmptyInput is returned when a post payload has no content at all.
var ErrEmptyInput = errors.New("empty post payload")

// MediaItem is a single image, video or gif attached to a post.
type MediaItem struct {
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Duration  *int      `json:"duration,omitempty"` // seconds, videos and gifs only
}

// Post is a social-media post as handed over by a platform adapter.
// Nil counters mean the platform did not report them.
type Post struct {
	Platform string      `json:"platform"`
	Author   string      `json:"author"`
	Content  string      `json:"content,omitempty"`
	URL      string      `json:"url"`
	Likes    *int64      `json:"likes,omitempty"`
	Shares   *int64      `json:"shares,omitempty"`
	Comments *int64      `json:"comments,omitempty"`
	Media    []MediaItem `json:"media,omitempty"`
}

// DecodePost reads a single JSON encoded post from r.
func DecodePost(r io.Reader) (*Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading post: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyInput
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding post: %w", err)
	}
	return &p, nil
}

// Count is a helper for building optional counters.
func Count(n int64) *int64 {
	return &n
}

// Seconds is a helper for building optional media durations.
func Seconds(n int) *int {
	return &n
}
