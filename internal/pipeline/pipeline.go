package pipeline

import (
	"context"
	"fmt"
	"io"

	"genfinder/internal/config"
	"genfinder/internal/genius"
	"genfinder/internal/logger"
	"genfinder/internal/output"
	"genfinder/internal/resolver/soundcloud"
	"genfinder/internal/resolver/spotify"
	"genfinder/internal/track"
)

// songFinder is the slice of the Genius client the pipeline needs.
type songFinder interface {
	Match(ctx context.Context, title, artist string) (genius.Song, error)
	Lyrics(ctx context.Context, pageURL string) (string, error)
}

// Pipeline executes the single forward pass:
// resolve track → match on Genius → scrape lyrics → format → write.
type Pipeline struct {
	cfg      config.Config
	log      *logger.Logger
	out      io.Writer
	resolver track.Resolver
	finder   songFinder
}

// New builds a pipeline with the real service clients for the configured
// source.
func New(cfg config.Config, log *logger.Logger, out io.Writer) *Pipeline {
	var resolver track.Resolver
	if cfg.Query().Source == track.SourceSpotify {
		resolver = spotify.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.HTTPTimeout())
	} else {
		resolver = soundcloud.New(cfg.HTTPTimeout())
	}

	return &Pipeline{
		cfg:      cfg,
		log:      log,
		out:      out,
		resolver: resolver,
		finder:   genius.NewClient(cfg.GeniusAccessToken, cfg.HTTPTimeout()),
	}
}

// Run executes the pipeline. Every stage failure is fatal except a lyrics
// scrape failure when metadata was also requested: then the metadata is
// still emitted, the failure is logged as a warning, and surfaced in the
// result's lyrics_error field.
func (p *Pipeline) Run(ctx context.Context) error {
	q := p.cfg.Query()

	p.log.Debug("Resolving %s track: %s", p.resolver.Name(), q.URL)
	meta, err := p.resolver.Resolve(ctx, q.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve %s track: %w", p.resolver.Name(), err)
	}
	if meta.Title == "" {
		return fmt.Errorf("could not extract a track title from %s", q.URL)
	}
	p.log.Debug("Resolved: %q by %q", meta.Title, meta.Artist)

	song, err := p.finder.Match(ctx, meta.Title, meta.Artist)
	if err != nil {
		return fmt.Errorf("genius match failed: %w", err)
	}
	p.log.Debug("Matched Genius song %d: %s", song.ID, song.URL)

	merge(&meta, song)

	wantLyrics := !p.cfg.DataOnly
	wantData := !p.cfg.LyricsOnly

	res := output.Result{}
	if wantData {
		res.Metadata = &meta
	}

	if wantLyrics {
		lyrics, err := p.finder.Lyrics(ctx, song.URL)
		switch {
		case err == nil:
			res.Lyrics = lyrics
		case wantData:
			p.log.Warn("Lyrics scraping failed: %v", err)
			res.LyricsError = err.Error()
		default:
			return fmt.Errorf("lyrics scraping failed: %w", err)
		}
	}

	format := output.Format(p.cfg.OutputFormat)
	content, err := output.Render(res, format)
	if err != nil {
		return err
	}

	if p.cfg.SaveToFile {
		path, err := output.Write(content, meta, p.cfg.SaveDir, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Saved: %s\n", path)
		return nil
	}

	fmt.Fprintln(p.out, content)
	return nil
}

// merge prefers the Genius record for fields it has, keeping the
// streaming-service values as fallback.
func merge(meta *track.Metadata, song genius.Song) {
	if song.Title != "" {
		meta.Title = song.Title
	}
	if song.Artist != "" {
		meta.Artist = song.Artist
	}
	if song.Album != "" {
		meta.Album = song.Album
	}
	if song.ReleaseDate != "" {
		meta.ReleaseDate = song.ReleaseDate
	}
	meta.GeniusURL = song.URL
}
