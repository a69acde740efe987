package track

import "context"

// Source identifies the streaming service a track URL points at.
type Source string

const (
	SourceSpotify    Source = "spotify"
	SourceSoundCloud Source = "soundcloud"
)

// Query is the user's input: a single streaming-service track URL.
type Query struct {
	Source Source
	URL    string
}

// Metadata contains song information collected along the pipeline.
// The streaming-service fields are filled first; GeniusURL is set once
// the song has been matched on Genius.
type Metadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	GeniusURL   string `json:"genius_url,omitempty"`
}

// Resolver maps a streaming-service track URL to basic song metadata.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, url string) (Metadata, error)
}
