// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/deepdive/internal/httputil"
	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/internal/textanalysis"
	"github.com/pdiddy/deepdive/pkg/types"
)

// Endpoints are vars so tests can substitute httptest servers.
var (
	youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"
	timedtextURL     = "https://www.youtube.com/api/timedtext"
)

// DefaultLanguages are the transcript languages tried, in order, when none
// are configured.
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

const (
	maxDescriptionRunes = 500
	transcriptWorkers   = 4
	watchURLPrefix      = "https://www.youtube.com/watch?v="
	maxTranscriptBytes  = 4 << 20
	defaultVideoTimeout = 15 * time.Second
)

// TranscriptUnavailable is the placeholder transcript for a video whose
// captions could not be retrieved.
func TranscriptUnavailable(videoID string) string {
	return "Transcript not available for video " + videoID
}

// YouTube searches the YouTube Data API and fetches caption transcripts.
// Without an API key it returns simulated videos.
type YouTube struct {
	apiKey    string
	languages []string
	client    *http.Client
	retries   int
	log       *zap.Logger
	inst      instrument.Instrumenter
}

// NewYouTube builds the video backend from cfg.
func NewYouTube(cfg types.VideoConfig, log *zap.Logger, inst instrument.Instrumenter) *YouTube {
	if log == nil {
		log = zap.NewNop()
	}
	y := &YouTube{
		apiKey:    cfg.APIKey,
		languages: cfg.Languages,
		client:    &http.Client{Timeout: cfg.Timeout},
		retries:   cfg.MaxRetries,
		log:       log,
		inst:      instrument.OrNop(inst),
	}
	if cfg.Timeout <= 0 {
		y.client.Timeout = defaultVideoTimeout
	}
	if len(y.languages) == 0 {
		y.languages = DefaultLanguages
	}
	if y.apiKey == "" {
		log.Warn("YouTube API key not configured, using simulated videos")
	}
	return y
}

// Simulated reports whether the backend returns synthetic videos.
func (y *YouTube) Simulated() bool { return y.apiKey == "" }

// SearchAndTranscribe returns up to max videos for query, each with a
// transcript. A video whose transcript cannot be fetched keeps a placeholder
// transcript. A failed search yields an empty list.
func (y *YouTube) SearchAndTranscribe(ctx context.Context, query string, max int) ([]types.Video, error) {
	ctx = y.inst.Start(ctx, instrument.StageRetrieve)
	defer y.inst.End(ctx, instrument.StageRetrieve)

	if max <= 0 {
		return []types.Video{}, nil
	}
	if y.Simulated() {
		return simulatedVideos(query, max), nil
	}

	videos, err := y.search(ctx, query, max)
	if err != nil {
		y.inst.Error(ctx, instrument.StageRetrieve, err)
		y.log.Warn("video search failed",
			zap.String("source", "youtube"), zap.String("query", query), zap.Error(err))
		return []types.Video{}, nil
	}

	// Each goroutine writes only its own slot.
	var g errgroup.Group
	g.SetLimit(transcriptWorkers)
	for i := range videos {
		g.Go(func() error {
			text, err := y.transcript(ctx, videos[i].ID)
			if err != nil {
				y.log.Warn("transcript unavailable",
					zap.String("video", videos[i].ID), zap.Error(err))
				videos[i].Transcript = TranscriptUnavailable(videos[i].ID)
				return nil
			}
			videos[i].Transcript = textanalysis.CleanTranscript(text)
			return nil
		})
	}
	// Transcript failures become placeholders, so Wait only joins.
	_ = g.Wait()
	return videos, nil
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (y *YouTube) search(ctx context.Context, query string, max int) ([]types.Video, error) {
	params := url.Values{
		"q":          {query},
		"part":       {"snippet"},
		"type":       {"video"},
		"order":      {"relevance"},
		"maxResults": {strconv.Itoa(max)},
		"key":        {y.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: creating request: %w", err)
	}
	resp, err := httputil.DoWithRetry(ctx, y.client, req, y.retries)
	if err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("youtube: HTTP %d: %s", resp.StatusCode, body)
	}

	var sr youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("youtube: decoding response: %w", err)
	}

	videos := make([]types.Video, 0, len(sr.Items))
	for _, item := range sr.Items {
		id := item.ID.VideoID
		if id == "" || len(videos) >= max {
			continue
		}
		s := item.Snippet
		videos = append(videos, types.Video{
			ID:          id,
			Title:       s.Title,
			URL:         watchURLPrefix + id,
			Channel:     s.ChannelTitle,
			PublishedAt: s.PublishedAt,
			Description: truncate(s.Description, maxDescriptionRunes),
			Thumbnail:   s.Thumbnails["high"].URL,
		})
	}
	return videos, nil
}

type timedtext struct {
	Texts []string `xml:"text"`
}

// transcript fetches the caption track for id in the first configured
// language that has one.
func (y *YouTube) transcript(ctx context.Context, id string) (string, error) {
	var lastErr error
	for _, lang := range y.languages {
		text, err := y.fetchTrack(ctx, id, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no captions in %s", strings.Join(y.languages, ", "))
	}
	return "", lastErr
}

func (y *YouTube) fetchTrack(ctx context.Context, id, lang string) (string, error) {
	params := url.Values{"v": {id}, "lang": {lang}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, timedtextURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := httputil.DoWithRetry(ctx, y.client, req, y.retries)
	if err != nil {
		return "", fmt.Errorf("fetching captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching captions: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
	if err != nil {
		return "", fmt.Errorf("reading captions: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var tt timedtext
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("decoding captions: %w", err)
	}
	segments := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		// Caption text arrives entity-escaped a second time inside the XML.
		if t = strings.TrimSpace(html.UnescapeString(t)); t != "" {
			segments = append(segments, t)
		}
	}
	return strings.Join(segments, " "), nil
}
