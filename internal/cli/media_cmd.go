package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/haytac/social-post-bot/internal/formatter"
	"github.com/haytac/social-post-bot/internal/social"
)

// NewMediaCmd creates the media command.
func NewMediaCmd() *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "media [post.json|-]",
		Short: "Describe the media attached to a post",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := readPost(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if mediaType != "" {
				t := social.MediaType(mediaType)
				if t != social.MediaImage && t != social.MediaVideo && t != social.MediaGIF {
					return fmt.Errorf("invalid media type: %s. Must be image, video, or gif", mediaType)
				}
				items := formatter.FilterMediaByType(post.Media, t)
				if len(items) == 0 {
					fmt.Fprintf(out, "No %s media.\n", t)
					return nil
				}
				for i, item := range items {
					line := fmt.Sprintf("%d. %s", i+1, item.URL)
					if item.Duration != nil {
						line += " (" + formatter.FormatDuration(*item.Duration) + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			}

			summary := formatter.Summarize(post)
			if summary.MainType == "" {
				fmt.Fprintln(out, "No media attached.")
				return nil
			}
			fmt.Fprintf(out, "Main type: %s\n", summary.MainType)
			fmt.Fprintf(out, "Thumbnail: %s\n", summary.Thumbnail)

			types := make([]string, 0, len(summary.Counts))
			for t := range summary.Counts {
				types = append(types, string(t))
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Fprintf(out, "%s: %d\n", t, summary.Counts[social.MediaType(t)])
			}
			for _, d := range summary.Durations {
				fmt.Fprintf(out, "Duration: %s\n", d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaType, "type", "", "list only media of this type (image, video, gif)")
	return cmd
}
