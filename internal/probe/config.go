package probe

import "time"

// Config holds configuration for a probe run
type Config struct {
	BaseURL    string        // Base URL of the service
	Player     string        // Optional player whose actions are fetched
	AllPlayers bool          // Fetch the actions of every roster player
	Workers    int           // Concurrent requests during the player sweep
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Log every line that was checked
}

// Line is one parsed totals line.
type Line struct {
	Name     string
	Points   int
	Rebounds int
	Assists  int
}

// Report summarizes a probe run
type Report struct {
	Teams     int
	Players   int
	Lines     int
	Actions   int
	Requests  int
	StartTime time.Time
	Duration  time.Duration
}
