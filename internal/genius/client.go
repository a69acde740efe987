// Package genius talks to the Genius search/song API and scrapes song
// pages for lyrics. The HTML extraction lives entirely in Lyrics so that
// a site-layout change touches one function only.
package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoMatch is returned when no search candidate fits the query.
var ErrNoMatch = errors.New("no matching song found on Genius")

// ErrInvalidToken is returned when the API rejects the access token.
var ErrInvalidToken = errors.New("invalid Genius API access token")

// Song is the metadata Genius holds for a matched song.
type Song struct {
	ID          int
	Title       string
	Artist      string
	Album       string
	ReleaseDate string
	URL         string
}

// Client is a Genius API client.
type Client struct {
	accessToken string
	httpClient  *http.Client

	// Overridable for testing
	apiURL string
}

// NewClient creates a new Genius client with the given access token.
func NewClient(accessToken string, timeout time.Duration) *Client {
	return &Client{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		apiURL:      "https://api.genius.com",
	}
}

// Match searches Genius for "title artist" and returns the full song
// record of the best candidate. Returns ErrNoMatch when the search comes
// back empty.
func (c *Client) Match(ctx context.Context, title, artist string) (Song, error) {
	hits, err := c.search(ctx, strings.TrimSpace(title+" "+artist))
	if err != nil {
		return Song{}, err
	}

	best, ok := pickMatch(hits, artist)
	if !ok {
		return Song{}, ErrNoMatch
	}

	return c.song(ctx, best.Result.ID)
}

// pickMatch selects the first hit whose primary artist contains the query
// artist (case-insensitive). When none does, the API's first hit wins.
func pickMatch(hits []hit, artist string) (hit, bool) {
	if len(hits) == 0 {
		return hit{}, false
	}
	artistLower := strings.ToLower(strings.TrimSpace(artist))
	if artistLower != "" {
		for _, h := range hits {
			if strings.Contains(strings.ToLower(h.Result.PrimaryArtist.Name), artistLower) {
				return h, true
			}
		}
	}
	return hits[0], true
}

func (c *Client) search(ctx context.Context, query string) ([]hit, error) {
	params := url.Values{}
	params.Set("q", query)

	reqURL := fmt.Sprintf("%s/search?%s", c.apiURL, params.Encode())
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("genius search request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("genius search: %w", err)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode genius search response: %w", err)
	}
	return searchResp.Response.Hits, nil
}

func (c *Client) song(ctx context.Context, id int) (Song, error) {
	reqURL := fmt.Sprintf("%s/songs/%d", c.apiURL, id)
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return Song{}, fmt.Errorf("genius song request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Song{}, fmt.Errorf("genius song %d: %w", id, err)
	}

	var songResp songResponse
	if err := json.NewDecoder(resp.Body).Decode(&songResp); err != nil {
		return Song{}, fmt.Errorf("failed to decode genius song response: %w", err)
	}

	s := songResp.Response.Song
	return Song{
		ID:          s.ID,
		Title:       s.Title,
		Artist:      s.PrimaryArtist.Name,
		Album:       s.Album.Name,
		ReleaseDate: s.ReleaseDate,
		URL:         s.URL,
	}, nil
}

func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return c.httpClient.Do(req)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Genius API response types

type searchResponse struct {
	Response struct {
		Hits []hit `json:"hits"`
	} `json:"response"`
}

type hit struct {
	Result struct {
		ID            int        `json:"id"`
		Title         string     `json:"title"`
		URL           string     `json:"url"`
		PrimaryArtist artistInfo `json:"primary_artist"`
	} `json:"result"`
}

type artistInfo struct {
	Name string `json:"name"`
}

type songResponse struct {
	Response struct {
		Song struct {
			ID            int        `json:"id"`
			Title         string     `json:"title"`
			URL           string     `json:"url"`
			ReleaseDate   string     `json:"release_date"`
			PrimaryArtist artistInfo `json:"primary_artist"`
			Album         struct {
				Name string `json:"name"`
			} `json:"album"`
		} `json:"song"`
	} `json:"response"`
}
