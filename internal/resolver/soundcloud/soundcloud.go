package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genfinder/internal/track"
)

// Client resolves SoundCloud track links through the public oEmbed
// endpoint, which needs no credentials. It implements track.Resolver.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new SoundCloud client.
func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     "https://soundcloud.com/oembed",
	}
}

func (c *Client) Name() string { return "soundcloud" }

var validHosts = map[string]bool{
	"soundcloud.com":    true,
	"m.soundcloud.com":  true,
	"on.soundcloud.com": true,
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid soundcloud URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("not a soundcloud track URL: %s", rawURL)
	}
	if !validHosts[u.Host] {
		return fmt.Errorf("not a soundcloud track URL: %s", rawURL)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("soundcloud URL has no track path: %s", rawURL)
	}
	return nil
}

// Resolve fetches track metadata for the given SoundCloud track URL.
// The oEmbed title usually has the form "Artist - Title"; when no
// separator is present the uploader name is used as the artist.
func (c *Client) Resolve(ctx context.Context, rawURL string) (track.Metadata, error) {
	if err := validateURL(rawURL); err != nil {
		return track.Metadata{}, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("url", rawURL)

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return track.Metadata{}, fmt.Errorf("failed to create oembed request: %w", err)
	}
	req.Header.Set("User-Agent", "genfinder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return track.Metadata{}, fmt.Errorf("soundcloud oembed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return track.Metadata{}, fmt.Errorf("soundcloud track not found: %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return track.Metadata{}, fmt.Errorf("soundcloud oembed returned %d: %s", resp.StatusCode, body)
	}

	var oembed oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return track.Metadata{}, fmt.Errorf("failed to decode soundcloud response: %w", err)
	}
	if oembed.Title == "" {
		return track.Metadata{}, fmt.Errorf("soundcloud returned no title for %s", rawURL)
	}

	artist, title := splitTitle(oembed.Title)
	if artist == "" {
		artist = oembed.AuthorName
	}

	return track.Metadata{
		Title:  title,
		Artist: artist,
	}, nil
}

// splitTitle splits an "Artist - Title" oEmbed title. The first separator
// wins; the title keeps any further ones.
func splitTitle(s string) (artist, title string) {
	parts := strings.Split(s, " - ")
	if len(parts) < 2 {
		return "", strings.TrimSpace(s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], strings.Join(parts[1:], " - ")
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}
