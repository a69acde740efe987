package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genfinder/internal/config"
	"genfinder/internal/genius"
	"genfinder/internal/logger"
	"genfinder/internal/track"
)

type fakeResolver struct {
	meta track.Metadata
	err  error
}

func (f *fakeResolver) Name() string { return "fake" }

func (f *fakeResolver) Resolve(ctx context.Context, url string) (track.Metadata, error) {
	return f.meta, f.err
}

type fakeFinder struct {
	song      genius.Song
	lyrics    string
	matchErr  error
	lyricsErr error

	matchCalled  bool
	lyricsCalled bool
}

func (f *fakeFinder) Match(ctx context.Context, title, artist string) (genius.Song, error) {
	f.matchCalled = true
	return f.song, f.matchErr
}

func (f *fakeFinder) Lyrics(ctx context.Context, pageURL string) (string, error) {
	f.lyricsCalled = true
	return f.lyrics, f.lyricsErr
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.GeniusAccessToken = "token"
	cfg.SpotifyURL = "https://open.spotify.com/track/4lH6nENd1y81jp7Yt9lTBX"
	return cfg
}

func testPipeline(cfg config.Config, r track.Resolver, f songFinder, out *bytes.Buffer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      logger.New(false),
		out:      out,
		resolver: r,
		finder:   f,
	}
}

func defaultFakes() (*fakeResolver, *fakeFinder) {
	resolver := &fakeResolver{
		meta: track.Metadata{Title: "Karma Police", Artist: "Radiohead"},
	}
	finder := &fakeFinder{
		song: genius.Song{
			ID:          2,
			Title:       "Karma Police",
			Artist:      "Radiohead",
			Album:       "OK Computer",
			ReleaseDate: "1997-08-25",
			URL:         "https://genius.com/Radiohead-karma-police-lyrics",
		},
		lyrics: "This is what you'll get",
	}
	return resolver, finder
}

func TestRunDefaultModeTextOutput(t *testing.T) {
	resolver, finder := defaultFakes()
	var out bytes.Buffer

	p := testPipeline(testConfig(), resolver, finder, &out)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	metaIdx := strings.Index(got, "Title : Karma Police")
	lyricsIdx := strings.Index(got, "This is what you'll get")
	if metaIdx < 0 {
		t.Fatalf("metadata block missing from output:\n%s", got)
	}
	if lyricsIdx < 0 {
		t.Fatalf("lyrics block missing from output:\n%s", got)
	}
	if metaIdx > lyricsIdx {
		t.Errorf("metadata should come before lyrics:\n%s", got)
	}
	if !strings.Contains(got, "URL   : https://genius.com/Radiohead-karma-police-lyrics") {
		t.Errorf("genius URL missing from metadata block:\n%s", got)
	}
}

func TestRunLyricsOnlyJSON(t *testing.T) {
	resolver, finder := defaultFakes()
	var out bytes.Buffer

	cfg := testConfig()
	cfg.LyricsOnly = true
	cfg.OutputFormat = "json"

	p := testPipeline(cfg, resolver, finder, &out)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if len(decoded) != 1 {
		t.Errorf("expected only a lyrics field, got %v", decoded)
	}
	if decoded["lyrics"] != "This is what you'll get" {
		t.Errorf("lyrics = %v", decoded["lyrics"])
	}
}

func TestRunDataOnlySkipsScraping(t *testing.T) {
	resolver, finder := defaultFakes()
	var out bytes.Buffer

	cfg := testConfig()
	cfg.DataOnly = true

	p := testPipeline(cfg, resolver, finder, &out)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if finder.lyricsCalled {
		t.Error("lyrics should not be scraped in data-only mode")
	}
	if strings.Contains(out.String(), "This is what you'll get") {
		t.Errorf("lyrics should not appear in data-only output:\n%s", out.String())
	}
}

func TestRunWritesFile(t *testing.T) {
	resolver, finder := defaultFakes()
	var out bytes.Buffer

	folder := filepath.Join(t.TempDir(), "out")
	cfg := testConfig()
	cfg.SaveToFile = true
	cfg.SaveDir = folder

	p := testPipeline(cfg, resolver, finder, &out)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		t.Fatalf("output folder not created: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Saved: ") {
		t.Errorf("stdout should carry only the confirmation line, got:\n%s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(folder, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "This is what you'll get") {
		t.Errorf("written file is missing the lyrics:\n%s", data)
	}
}

func TestRunLyricsFailureWithDataStillEmitsMetadata(t *testing.T) {
	resolver, finder := defaultFakes()
	finder.lyricsErr = genius.ErrNoLyrics
	var out bytes.Buffer

	cfg := testConfig()
	cfg.OutputFormat = "json"

	p := testPipeline(cfg, resolver, finder, &out)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("lyrics failure should not be fatal when metadata was requested: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["metadata"] == nil {
		t.Error("metadata missing from partial result")
	}
	if decoded["lyrics_error"] == nil {
		t.Error("lyrics_error missing from partial result")
	}
	if _, ok := decoded["lyrics"]; ok {
		t.Error("lyrics field should be omitted when scraping failed")
	}
}

func TestRunLyricsFailureInLyricsOnlyModeIsFatal(t *testing.T) {
	resolver, finder := defaultFakes()
	finder.lyricsErr = genius.ErrNoLyrics
	var out bytes.Buffer

	cfg := testConfig()
	cfg.LyricsOnly = true

	p := testPipeline(cfg, resolver, finder, &out)
	err := p.Run(context.Background())
	if !errors.Is(err, genius.ErrNoLyrics) {
		t.Fatalf("err = %v, want ErrNoLyrics", err)
	}
}

func TestRunResolverFailureStopsPipeline(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("track not found")}
	finder := &fakeFinder{}
	var out bytes.Buffer

	p := testPipeline(testConfig(), resolver, finder, &out)
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if finder.matchCalled {
		t.Error("matcher should not run after a resolver failure")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on failure, got:\n%s", out.String())
	}
}

func TestRunMatchFailureStopsPipeline(t *testing.T) {
	resolver, finder := defaultFakes()
	finder.matchErr = genius.ErrNoMatch
	var out bytes.Buffer

	p := testPipeline(testConfig(), resolver, finder, &out)
	err := p.Run(context.Background())
	if !errors.Is(err, genius.ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
	if finder.lyricsCalled {
		t.Error("scraper should not run after a match failure")
	}
}
