package probe

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/okian/courtside/pkg/logger"
)

// defaultWorkers is used when Config.Workers is not positive.
const defaultWorkers = 4

// playerResult is the outcome of one actions request.
type playerResult struct {
	name    string
	actions int
	err     error
}

// sweepPlayers fetches the actions of every distinct roster name with a
// bounded pool of workers. Every roster name is the primary participant of
// at least one event, so each must answer 200 with a non-empty list.
func sweepPlayers(ctx context.Context, config *Config, client *HTTPClient, roster map[string][]string) (int, error) {
	names := distinctNames(roster)
	workers := config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(names) {
		workers = len(names)
	}

	logger.Get().Info(ctx, "sweeping player actions",
		logger.Int("players", len(names)),
		logger.Int("workers", workers),
	)

	nameChan := make(chan string, workers*2)
	results := make(chan playerResult, len(names))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range nameChan {
				var actions []map[string]string
				path := "/games/players/" + url.PathEscape(name) + "/actions"
				err := client.getJSON(ctx, path, &actions)
				if err == nil && len(actions) == 0 {
					err = fmt.Errorf("%w: no actions for roster player %q", ErrInconsistent, name)
				}
				results <- playerResult{name: name, actions: len(actions), err: err}
			}
		}()
	}

	go func() {
		defer close(nameChan)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case nameChan <- name:
			}
		}
	}()

	wg.Wait()
	close(results)

	total := 0
	var failures []string
	var firstErr error
	for r := range results {
		if r.err != nil {
			failures = append(failures, r.name)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		total += r.actions
		if config.Verbose {
			logger.Get().Info(ctx, "player actions", logger.String("player", r.name), logger.Int("actions", r.actions))
		}
	}
	if firstErr != nil {
		sort.Strings(failures)
		return total, fmt.Errorf("%d players failed %v: %w", len(failures), failures, firstErr)
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}
	return total, nil
}

// distinctNames returns every roster name once, sorted.
func distinctNames(roster map[string][]string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, team := range roster {
		for _, name := range team {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
