package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"genfinder/internal/track"
)

// Client is a Spotify Web API client that implements track.Resolver.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	// Overridable for testing
	tokenURL string
	apiURL   string
}

// New creates a new Spotify client using the client-credentials flow.
func New(clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		tokenURL:     "https://accounts.spotify.com/api/token",
		apiURL:       "https://api.spotify.com/v1",
	}
}

func (c *Client) Name() string { return "spotify" }

// Spotify track IDs are base62.
var trackIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// TrackID extracts the track identifier from a Spotify track link.
// Accepted shapes:
//
//	https://open.spotify.com/track/<id>
//	https://open.spotify.com/intl-fr/track/<id>?si=...
//	spotify:track:<id>
func TrackID(rawURL string) (string, error) {
	if id, ok := strings.CutPrefix(rawURL, "spotify:track:"); ok {
		if !trackIDPattern.MatchString(id) {
			return "", fmt.Errorf("invalid spotify track URI: %s", rawURL)
		}
		return id, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid spotify URL: %w", err)
	}
	if u.Host != "open.spotify.com" {
		return "", fmt.Errorf("not a spotify track URL: %s", rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "track" && i+1 < len(segments) {
			id := segments[i+1]
			if !trackIDPattern.MatchString(id) {
				return "", fmt.Errorf("invalid spotify track ID in URL: %s", rawURL)
			}
			return id, nil
		}
	}
	return "", fmt.Errorf("not a spotify track URL: %s", rawURL)
}

// Resolve fetches track metadata for the given Spotify track URL.
func (c *Client) Resolve(ctx context.Context, rawURL string) (track.Metadata, error) {
	id, err := TrackID(rawURL)
	if err != nil {
		return track.Metadata{}, err
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return track.Metadata{}, fmt.Errorf("spotify auth failed: %w", err)
	}

	reqURL := fmt.Sprintf("%s/tracks/%s", c.apiURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return track.Metadata{}, fmt.Errorf("failed to create track request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return track.Metadata{}, fmt.Errorf("spotify track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return track.Metadata{}, fmt.Errorf("spotify track %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return track.Metadata{}, fmt.Errorf("spotify track request returned %d: %s", resp.StatusCode, body)
	}

	var item trackItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return track.Metadata{}, fmt.Errorf("failed to decode spotify response: %w", err)
	}
	if item.Name == "" {
		return track.Metadata{}, fmt.Errorf("spotify returned no title for track %s", id)
	}

	meta := track.Metadata{
		Title:       item.Name,
		Album:       item.Album.Name,
		ReleaseDate: item.Album.ReleaseDate,
	}
	if len(item.Artists) > 0 {
		meta.Artist = item.Artists[0].Name
	}
	return meta, nil
}

// getToken returns a valid access token, refreshing if necessary.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	data := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request returned %d: %s", resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	// Refresh a bit early to avoid edge-case expiry
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	return c.accessToken, nil
}

// Spotify API response types

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type trackItem struct {
	Name    string    `json:"name"`
	Artists []artist  `json:"artists"`
	Album   albumInfo `json:"album"`
}

type artist struct {
	Name string `json:"name"`
}

type albumInfo struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}
