// Package probe checks a running courtside service end to end: health,
// roster, totals and their mutual consistency, and optionally the actions
// of one or every player.
package probe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/courtside/pkg/logger"
)

// Run executes the complete probe and returns a summary.
func Run(ctx context.Context, config *Config) (*Report, error) {
	report := &Report{StartTime: time.Now()}
	log := logger.Get()
	client := newHTTPClient(strings.TrimRight(config.BaseURL, "/"), config.Timeout)

	log.Info(ctx, "starting courtside probe",
		logger.String("baseURL", config.BaseURL),
		logger.String("player", config.Player),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("allPlayers", config.AllPlayers),
	)

	// Step 1: Check service health
	var health map[string]string
	if err := client.getJSON(ctx, "/healthz", &health); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if health["status"] != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrUnhealthy, health["status"])
	}
	log.Info(ctx, "service is healthy")

	// Step 2: Fetch roster and totals
	var roster, totals map[string][]string
	if err := client.getJSON(ctx, "/games/players", &roster); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if err := client.getJSON(ctx, "/games/totals", &totals); err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}

	report.Teams = len(roster)
	for _, names := range roster {
		report.Players += len(names)
	}
	for _, lines := range totals {
		report.Lines += len(lines)
	}

	// Step 3: Verify consistency and ranking
	if err := verifyTotals(roster, totals); err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}
	log.Info(ctx, "totals verified against roster",
		logger.Int("teams", report.Teams),
		logger.Int("players", report.Players),
	)
	if config.Verbose {
		for _, team := range sortedKeys(totals) {
			for _, line := range totals[team] {
				log.Info(ctx, "totals line", logger.String("team", team), logger.String("line", line))
			}
		}
	}

	// Step 4: Optional sweep over every roster player
	if config.AllPlayers {
		n, err := sweepPlayers(ctx, config, client, roster)
		if err != nil {
			return nil, fmt.Errorf("player sweep: %w", err)
		}
		report.Actions += n
	}

	// Step 5: Optional single player actions
	if config.Player != "" {
		var actions []map[string]string
		path := "/games/players/" + url.PathEscape(config.Player) + "/actions"
		if err := client.getJSON(ctx, path, &actions); err != nil {
			return nil, fmt.Errorf("actions for %s: %w", config.Player, err)
		}
		report.Actions += len(actions)
		log.Info(ctx, "player actions fetched",
			logger.String("player", config.Player),
			logger.Int("actions", len(actions)),
		)
	}

	report.Requests = int(client.requests.Load())
	report.Duration = time.Since(report.StartTime)
	displayReport(ctx, report)
	return report, nil
}

// displayReport logs the final summary.
func displayReport(ctx context.Context, r *Report) {
	logger.Get().Info(ctx, "probe completed",
		logger.Int("teams", r.Teams),
		logger.Int("players", r.Players),
		logger.Int("lines", r.Lines),
		logger.Int("actions", r.Actions),
		logger.Int("requests", r.Requests),
		logger.Duration("duration", r.Duration),
	)
}
