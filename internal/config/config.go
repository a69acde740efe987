package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"genfinder/internal/track"
)

// Config contains the program configuration. The credential and format
// fields can come from a YAML config file or the environment; the rest is
// set from command-line flags only.
type Config struct {
	GeniusAccessToken   string `yaml:"genius_access_token"`
	SpotifyClientID     string `yaml:"spotify_client_id"`
	SpotifyClientSecret string `yaml:"spotify_client_secret"`
	OutputFormat        string `yaml:"output_format"`
	HTTPTimeoutSeconds  int    `yaml:"http_timeout_seconds"`
	Verbose             bool   `yaml:"verbose"`

	SpotifyURL    string `yaml:"-"`
	SoundCloudURL string `yaml:"-"`
	LyricsOnly    bool   `yaml:"-"`
	DataOnly      bool   `yaml:"-"`
	SaveToFile    bool   `yaml:"-"`
	SaveDir       string `yaml:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		OutputFormat:       "text",
		HTTPTimeoutSeconds: 10,
	}
}

// LoadConfigFile loads configuration from a YAML file, then applies
// environment overrides (a .env file in the working directory is honored).
// If path is empty, searches standard locations. Returns defaults if no
// file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv lets environment variables override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GENIUS_ACCESS_TOKEN"); v != "" {
		cfg.GeniusAccessToken = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		cfg.SpotifyClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		cfg.SpotifyClientSecret = v
	}
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./genfinder.yaml",
		"./genfinder.yml",
		filepath.Join(home, ".config", "genfinder", "config.yaml"),
		filepath.Join(home, ".config", "genfinder", "config.yml"),
		filepath.Join(home, ".genfinder.yaml"),
		filepath.Join(home, ".genfinder.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "genfinder", "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// HTTPTimeout returns the request timeout for all outbound HTTP calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Query returns the track query built from the source flags.
func (c *Config) Query() track.Query {
	if c.SpotifyURL != "" {
		return track.Query{Source: track.SourceSpotify, URL: c.SpotifyURL}
	}
	return track.Query{Source: track.SourceSoundCloud, URL: c.SoundCloudURL}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SpotifyURL == "" && c.SoundCloudURL == "" {
		return fmt.Errorf("a spotify (-sp) or soundcloud (-sc) track URL is required")
	}
	if c.SpotifyURL != "" && c.SoundCloudURL != "" {
		return fmt.Errorf("-sp and -sc are mutually exclusive")
	}
	if c.LyricsOnly && c.DataOnly {
		return fmt.Errorf("-l and -d are mutually exclusive")
	}

	if c.OutputFormat != "text" && c.OutputFormat != "json" {
		return fmt.Errorf("unsupported output format %q, valid formats: text, json", c.OutputFormat)
	}

	if c.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("http_timeout_seconds must be at least 1, got %d", c.HTTPTimeoutSeconds)
	}

	if c.GeniusAccessToken == "" {
		return fmt.Errorf("genius access token is missing: set genius_access_token in the config file or the GENIUS_ACCESS_TOKEN environment variable")
	}

	if c.SpotifyURL != "" {
		if c.SpotifyClientID == "" {
			return fmt.Errorf("spotify_client_id is required to resolve spotify links")
		}
		if c.SpotifyClientSecret == "" {
			return fmt.Errorf("spotify_client_secret is required to resolve spotify links")
		}
	}

	return nil
}
