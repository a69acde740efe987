package main

import (
	"fmt"
	"os"

	"genfinder/internal/logger"
	"genfinder/internal/pipeline"
	"genfinder/internal/shutdown"
)

func main() {
	cfg, configPath, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()

	log := logger.New(cfg.Verbose)

	if cfg.Verbose && configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	p := pipeline.New(cfg, log, os.Stdout)
	if err := p.Run(sh.Context()); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
