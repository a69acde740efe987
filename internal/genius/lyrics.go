package genius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoLyrics is returned when the song page carries no recognizable
// lyrics containers, typically after a site-layout change.
var ErrNoLyrics = errors.New("no lyrics found on page")

var (
	brTag         = regexp.MustCompile(`<br\s*/?>`)
	manyNewlines  = regexp.MustCompile(`\n{3,}`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// Lyrics fetches the Genius song page at pageURL and extracts its lyrics
// as plain text. Genius marks lyrics blocks with
// div[data-lyrics-container="true"]; ads and annotation headers inside
// them carry data-exclude-from-selection and are dropped.
func (c *Client) Lyrics(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", "genfinder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("genius page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse genius page: %w", err)
	}

	return extractLyrics(doc)
}

func extractLyrics(doc *goquery.Document) (string, error) {
	containers := doc.Find(`div[data-lyrics-container="true"]`)
	if containers.Length() == 0 {
		return "", ErrNoLyrics
	}

	var blocks []string
	containers.Each(func(_ int, s *goquery.Selection) {
		s.Find(`[data-exclude-from-selection]`).Remove()

		html, err := s.Html()
		if err != nil {
			return
		}
		if text := htmlToText(html); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return "", ErrNoLyrics
	}
	return strings.Join(blocks, "\n"), nil
}

// htmlToText turns a lyrics container's inner HTML into plain text,
// keeping <br>-induced line breaks and dropping all remaining markup.
func htmlToText(html string) string {
	html = brTag.ReplaceAllString(html, "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + html + "</div>"))
	if err != nil {
		return ""
	}

	text := doc.Text()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
