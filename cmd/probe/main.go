package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/courtside/internal/probe"
)

// Default configuration constants.
const (
	defaultTimeout      = 30 * time.Second
	defaultWorkers      = 4
	defaultProbeTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		player  = flag.String("player", "", "Also fetch this player's actions")
		all     = flag.Bool("all", false, "Fetch the actions of every roster player")
		workers = flag.Int("workers", defaultWorkers, "Concurrent requests during the -all sweep")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:    *baseURL,
		Player:     *player,
		AllPlayers: *all,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
