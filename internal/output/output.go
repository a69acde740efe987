// Package output assembles the final result and serializes it as text or
// JSON, to stdout or to a file.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"genfinder/internal/track"
)

// Format is the serialization format of the final output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q, valid formats: text, json", s)
	}
}

// Extension returns the file extension used when writing to a folder.
func (f Format) Extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "txt"
}

// Result holds whatever subset of metadata and lyrics was requested.
// Absent fields are omitted from JSON output, never emitted as nulls.
// LyricsError is set when lyrics were requested alongside metadata but
// scraping failed; it makes the omission explicit in the output.
type Result struct {
	Metadata    *track.Metadata `json:"metadata,omitempty"`
	Lyrics      string          `json:"lyrics,omitempty"`
	LyricsError string          `json:"lyrics_error,omitempty"`
}

// Render serializes the result in the given format.
func Render(res Result, format Format) (string, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize result: %w", err)
		}
		return string(data), nil
	}
	return renderText(res), nil
}

// renderText produces the human-readable block: labeled metadata first,
// then lyrics.
func renderText(res Result) string {
	var sections []string

	if m := res.Metadata; m != nil {
		lines := []string{
			"Title : " + m.Title,
			"Artist: " + m.Artist,
		}
		if m.Album != "" {
			lines = append(lines, "Album : "+m.Album)
		}
		if m.ReleaseDate != "" {
			lines = append(lines, "Date  : "+m.ReleaseDate)
		}
		if m.GeniusURL != "" {
			lines = append(lines, "URL   : "+m.GeniusURL)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if res.Lyrics != "" {
		sections = append(sections, res.Lyrics)
	} else if res.LyricsError != "" {
		sections = append(sections, "[lyrics unavailable: "+res.LyricsError+"]")
	}

	return strings.Join(sections, "\n\n")
}

var unsafeChars = regexp.MustCompile(`[^\w\s\-_().]`)

// SanitizeFilename strips characters unsafe for filenames and replaces
// spaces with underscores.
func SanitizeFilename(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "_")
}

// Write saves content into folder, creating it if absent. The filename is
// the sanitized "Artist - Title" of the song plus the format's extension.
// Returns the path of the written file.
func Write(content string, meta track.Metadata, folder string, format Format) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create output folder %s: %w", folder, err)
	}

	base := meta.Title
	if meta.Artist != "" {
		base = meta.Artist + " - " + meta.Title
	}
	name := SanitizeFilename(base)
	if name == "" {
		name = "song"
	}

	path := filepath.Join(folder, name+"."+format.Extension())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return path, nil
}
