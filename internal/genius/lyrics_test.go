package genius

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const songPage = `<!DOCTYPE html>
<html>
<body>
<div id="header">Genius</div>
<div data-lyrics-container="true">[Verse 1]<br>First line of the song<br><i>A line in italics</i><br><br>[Chorus]<br>Shout it out loud<span data-exclude-from-selection="true">You might also like</span></div>
<div data-lyrics-container="true"><br>[Outro]<br>The very last line</div>
<div id="footer">About</div>
</body>
</html>`

const expectedLyrics = `[Verse 1]
First line of the song
A line in italics

[Chorus]
Shout it out loud
[Outro]
The very last line`

func TestLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(songPage))
	}))
	defer srv.Close()

	c := NewClient("test-token", 0)

	got, err := c.Lyrics(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expectedLyrics {
		t.Errorf("lyrics mismatch:\ngot:\n%q\nwant:\n%q", got, expectedLyrics)
	}
}

func TestLyricsNoContainers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="redesigned-layout">nothing here</div></body></html>`))
	}))
	defer srv.Close()

	c := NewClient("test-token", 0)

	_, err := c.Lyrics(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoLyrics) {
		t.Fatalf("err = %v, want ErrNoLyrics", err)
	}
}

func TestLyricsOnlyExcludedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div data-lyrics-container="true"><span data-exclude-from-selection="true">Ad block</span></div></body></html>`))
	}))
	defer srv.Close()

	c := NewClient("test-token", 0)

	_, err := c.Lyrics(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoLyrics) {
		t.Fatalf("err = %v, want ErrNoLyrics", err)
	}
}

func TestLyricsPageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-token", 0)

	_, err := c.Lyrics(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for missing page, got nil")
	}
}
