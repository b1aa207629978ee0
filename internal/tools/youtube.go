package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"
)

// ErrNoTranscript means the video has captions disabled or none in the
// requested language.
var ErrNoTranscript = errors.New("no transcript available")

// TranscriptFetcher returns the caption segments of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string, language string) ([]string, error)
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&\s]+)`),
	regexp.MustCompile(`youtu\.be/([^?\s]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^?\s]+)`),
}

// ExtractVideoID pulls the id out of watch, short and embed URLs. Anything
// else is assumed to already be an id.
func ExtractVideoID(urlOrID string) string {
	s := strings.TrimSpace(urlOrID)
	if s == "" {
		return ""
	}

	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return s
}

type TranscriptInput struct {
	VideoURLOrID string `json:"video_url_or_id"`
}

type YouTubeTranscript struct {
	fetcher  TranscriptFetcher
	language string
	logger   *zerolog.Logger
}

func NewYouTubeTranscript(fetcher TranscriptFetcher, language string, logger *zerolog.Logger) *YouTubeTranscript {
	if language == "" {
		language = "en"
	}
	return &YouTubeTranscript{fetcher: fetcher, language: language, logger: logger}
}

func (y *YouTubeTranscript) Name() string { return "get_youtube_transcript" }

func (y *YouTubeTranscript) Description() string {
	return "Get the transcript of a YouTube cooking video to extract its recipe. Accepts any YouTube URL format or a bare video ID."
}

func (y *YouTubeTranscript) Parameters() map[string]any {
	return objectSchema([]string{"video_url_or_id"}, map[string]any{
		"video_url_or_id": stringParam("YouTube video URL (any format) or video ID"),
	})
}

func (y *YouTubeTranscript) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in TranscriptInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return y.Transcript(ctx, in.VideoURLOrID), nil
}

func (y *YouTubeTranscript) Transcript(ctx context.Context, videoURLOrID string) string {
	videoID := ExtractVideoID(videoURLOrID)
	if videoID == "" {
		return "Error: No valid video URL or ID provided."
	}

	segments, err := y.fetcher.Fetch(ctx, videoID, y.language)
	if errors.Is(err, ErrNoTranscript) {
		y.logger.Info().Str("video_id", videoID).Msg("no transcript for video")
		return fmt.Sprintf("No transcript available for video %s. Try searching for a similar recipe instead.", videoID)
	}
	if err != nil {
		y.logger.Error().Err(err).Str("video_id", videoID).Msg("transcript fetch failed")
		return fmt.Sprintf("Error retrieving transcript for video %s: %v", videoID, err)
	}

	return fmt.Sprintf("Transcript for video %s:\n\n%s", videoID, strings.Join(segments, " "))
}

// YouTubeFetcher reads captions through the kkdai/youtube client.
type YouTubeFetcher struct {
	client *youtube.Client
}

func NewYouTubeFetcher() *YouTubeFetcher {
	return &YouTubeFetcher{client: &youtube.Client{}}
}

func (f *YouTubeFetcher) Fetch(ctx context.Context, videoID string, language string) ([]string, error) {
	video, err := f.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}

	transcript, err := f.client.GetTranscriptCtx(ctx, video, language)
	if errors.Is(err, youtube.ErrTranscriptDisabled) {
		return nil, ErrNoTranscript
	}
	if err != nil {
		return nil, err
	}
	if len(transcript) == 0 {
		return nil, ErrNoTranscript
	}

	segments := make([]string, 0, len(transcript))
	for _, seg := range transcript {
		if text := strings.TrimSpace(seg.Text); text != "" {
			segments = append(segments, text)
		}
	}
	return segments, nil
}
