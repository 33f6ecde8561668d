package probe

import (
	"fmt"
	"os"

	"github.com/okian/courtside/pkg/logger"
)

// SetupLogging initializes the shared logger for the probe.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`courtside probe
===============

Checks a running courtside service: health, roster, totals, and that every
roster player has exactly one correctly ranked totals line.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -player string
        Also fetch this player's actions, e.g. "S. Curry"
  -all
        Fetch the actions of every roster player and require each to be non-empty
  -workers int
        Concurrent requests during the -all sweep (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Log every request and totals line
  -help
        Show this help message

Examples:
  go run ./cmd/probe
  go run ./cmd/probe -url http://localhost:8080 -player "S. Curry" -verbose
  go run ./cmd/probe -all -workers 8
`)
}
