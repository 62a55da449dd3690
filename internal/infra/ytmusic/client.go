// Package ytmusic provides a client for a watch-playlist compatible feed API.
//
// The feed serves radio continuations for a seed video: given a video ID it
// returns the next batch of related tracks, in the same JSON shape the music
// service's watch endpoint uses.
package ytmusic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Config represents feed client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a watch-playlist feed client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// WatchTrack represents one track entry in a watch playlist response.
type WatchTrack struct {
	Title   string `json:"title"`
	VideoID string `json:"videoId"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Duration struct {
		Text string `json:"text"`
	} `json:"duration"`
}

// watchPlaylistResponse represents the response from the watch_playlist endpoint.
type watchPlaylistResponse struct {
	Tracks []WatchTrack `json:"tracks"`
}

// apiError represents an error response from the feed.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New creates a new feed client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("feed base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetWatchPlaylist retrieves the radio continuation for the given video ID.
func (c *Client) GetWatchPlaylist(ctx context.Context, videoID string, limit int) ([]WatchTrack, error) {
	if videoID == "" {
		return nil, errors.New("video ID is required")
	}
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}

	params := url.Values{}
	params.Set("video_id", videoID)
	params.Set("limit", strconv.Itoa(limit))

	reqURL := c.baseURL + "/watch_playlist?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "feed request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, errors.Newf("feed error: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return nil, errors.Newf("feed returned status %d", resp.StatusCode)
	}

	var parsed watchPlaylistResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse watch playlist response")
	}

	zlog.Debug().Msgf("ytmusic: watch playlist fetched: video_id=%s requested=%d got=%d",
		videoID, limit, len(parsed.Tracks))

	return parsed.Tracks, nil
}

// PrimaryArtist returns the first artist name, or an empty string.
func (w WatchTrack) PrimaryArtist() string {
	if len(w.Artists) == 0 {
		return ""
	}
	return w.Artists[0].Name
}
