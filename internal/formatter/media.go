package formatter

import "github.com/haytac/social-post-bot/internal/social"

// MainMediaType returns the type of the first attached media item.
func MainMediaType(post *social.Post) (social.MediaType, bool) {
	if len(post.Media) == 0 {
		return "", false
	}
	return post.Media[0].Type, true
}

// MainThumbnail returns the preview image of the first media item, falling
// back to the item URL when it has no thumbnail.
func MainThumbnail(post *social.Post) (string, bool) {
	if len(post.Media) == 0 {
		return "", false
	}
	if first := post.Media[0]; first.Thumbnail != "" {
		return first.Thumbnail, true
	}
	return post.Media[0].URL, true
}

// FilterMediaByType returns the items of type t in their original order.
// The input slice is left untouched.
func FilterMediaByType(media []social.MediaItem, t social.MediaType) []social.MediaItem {
	out := []social.MediaItem{}
	for _, item := range media {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// MediaSummary describes the media attached to a post.
type MediaSummary struct {
	MainType  social.MediaType         `json:"main_type,omitempty"`
	Thumbnail string                   `json:"thumbnail,omitempty"`
	Counts    map[social.MediaType]int `json:"counts"`
	Durations []string                 `json:"durations,omitempty"`
}

// Summarize collects the main media properties and per-type counts.
func Summarize(post *social.Post) MediaSummary {
	s := MediaSummary{Counts: make(map[social.MediaType]int)}
	s.MainType, _ = MainMediaType(post)
	s.Thumbnail, _ = MainThumbnail(post)
	for _, t := range []social.MediaType{social.MediaImage, social.MediaVideo, social.MediaGIF} {
		if n := len(FilterMediaByType(post.Media, t)); n > 0 {
			s.Counts[t] = n
		}
	}
	for _, item := range post.Media {
		if item.Duration != nil {
			s.Durations = append(s.Durations, FormatDuration(*item.Duration))
		}
	}
	return s
}
