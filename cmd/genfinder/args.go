package main

import (
	"fmt"
	"os"

	"genfinder/internal/config"
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > environment > config file > defaults
func parseArgs(args []string) (config.Config, string, error) {
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, "", initConfigFile()
		}
	}

	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--spotify", "-sp":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("%s requires a track URL", arg)
			}
			i++
			cfg.SpotifyURL = args[i]

		case "--soundcloud", "-sc":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("%s requires a track URL", arg)
			}
			i++
			cfg.SoundCloudURL = args[i]

		case "--lyrics", "-l":
			cfg.LyricsOnly = true

		case "--data", "-d":
			cfg.DataOnly = true

		case "--output", "-o":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("%s requires a format (text or json)", arg)
			}
			i++
			cfg.OutputFormat = args[i]

		case "--file", "-f":
			cfg.SaveToFile = true
			cfg.SaveDir = "."
			// Folder argument is optional; a bare -f means the current directory.
			if i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				i++
				cfg.SaveDir = args[i]
			}

		case "--verbose", "-v":
			cfg.Verbose = true

		case "--config", "-c":
			i++

		default:
			return config.Config{}, "", fmt.Errorf("unknown argument: %s", arg)
		}
	}

	return cfg, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to set your credentials.")
	fmt.Println("Available options:")
	fmt.Println("  genius_access_token: Genius API token (required)")
	fmt.Println("  spotify_client_id / spotify_client_secret: required for spotify links")
	fmt.Println("  output_format: text or json")
	fmt.Println("  http_timeout_seconds: request timeout (default: 10)")
	fmt.Println("  verbose: true/false (enable detailed logging)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("genfinder - Fetch song metadata and/or lyrics from Genius using a Spotify or SoundCloud link")
	fmt.Println()
	fmt.Println("Usage: genfinder (-sp <url> | -sc <url>) [options]")
	fmt.Println()
	fmt.Println("Sources (exactly one required):")
	fmt.Println("  -sp, --spotify <url>       Spotify track URL")
	fmt.Println("  -sc, --soundcloud <url>    SoundCloud track URL")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -l, --lyrics               Return only the lyrics")
	fmt.Println("  -d, --data                 Return only the song metadata")
	fmt.Println("  -o, --output <format>      Output format: text or json (default: text)")
	fmt.Println("  -f, --file [folder]        Save output to a file in the given folder")
	fmt.Println("                             (current directory if no folder given)")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./genfinder.yaml")
	fmt.Println("  ~/.config/genfinder/config.yaml")
	fmt.Println("  ~/.genfinder.yaml")
	fmt.Println()
	fmt.Println("Credentials can also come from the environment (or a .env file):")
	fmt.Println("  GENIUS_ACCESS_TOKEN, SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Metadata and lyrics as text")
	fmt.Println("  genfinder -sp https://open.spotify.com/track/...")
	fmt.Println()
	fmt.Println("  # Lyrics only, as JSON")
	fmt.Println("  genfinder -sp https://open.spotify.com/track/... -l -o json")
	fmt.Println()
	fmt.Println("  # Metadata only, saved into ./out")
	fmt.Println("  genfinder -sc https://soundcloud.com/artist/title -d -f ./out")
}
