// Package catalog provides a client for the music catalog service that
// resolves track ids to playable stream URLs, lyric payloads and provider
// listings.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoURL is returned when the service answers without a playable URL.
var ErrNoURL = errors.New("no playable url")

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("not found")

const defaultTimeout = 15 * time.Second

// Client is a catalog service API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewWithTimeout creates a client with a custom request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	c := New(baseURL)
	c.httpClient.Timeout = timeout
	return c
}

// Resolution is the answer to a URL resolution request.
type Resolution struct {
	URL              string `json:"url"`
	TrackID          string `json:"mid"`
	Quality          string `json:"quality,omitempty"`
	Provider         string `json:"provider,omitempty"`
	FallbackProvider string `json:"fallback_provider,omitempty"` // set when another provider served the track
	OriginalProvider string `json:"original_provider,omitempty"`
}

// Lyric is a raw lyric payload for one track.
type Lyric struct {
	TrackID     string `json:"mid"`
	Text        string `json:"lyric"`
	Translation string `json:"trans,omitempty"`
}

// Provider describes one available music provider.
type Provider struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type resolutionResponse struct {
	envelope
	Resolution
}

type lyricResponse struct {
	envelope
	Lyric
}

type providersResponse struct {
	envelope
	Providers []Provider `json:"providers"`
}

// ResolveURL resolves a playable URL for the track at the given quality tier
// ("auto", "high", "balanced" or "compat"). A successful response with an
// empty URL is reported as ErrNoURL.
func (c *Client) ResolveURL(ctx context.Context, trackID, quality string) (*Resolution, error) {
	params := url.Values{}
	params.Set("mid", trackID)
	if quality != "" {
		params.Set("quality", quality)
	}

	var resp resolutionResponse
	if err := c.get(ctx, "/song/url", params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, serviceError(resp.envelope)
	}
	if resp.URL == "" {
		return nil, ErrNoURL
	}
	return &resp.Resolution, nil
}

// FetchLyric fetches the raw lyric payload for a track.
func (c *Client) FetchLyric(ctx context.Context, trackID string) (*Lyric, error) {
	params := url.Values{}
	params.Set("mid", trackID)

	var resp lyricResponse
	if err := c.get(ctx, "/song/lyric", params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, serviceError(resp.envelope)
	}
	if resp.Lyric.TrackID == "" {
		resp.Lyric.TrackID = trackID
	}
	return &resp.Lyric, nil
}

// Providers lists every registered provider with its capability set.
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	var resp providersResponse
	if err := c.get(ctx, "/providers", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, serviceError(resp.envelope)
	}
	return resp.Providers, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func serviceError(e envelope) error {
	if e.Error != "" {
		return errors.New(e.Error)
	}
	return errors.New("request failed")
}
