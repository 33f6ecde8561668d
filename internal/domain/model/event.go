// Package model contains domain models passed between layers.
package model

// Event is one play-by-play action of a game.
// JSON tags mirror the upstream live-data feed; optional fields are pointers
// and are nil when the feed omits them.
type Event struct {
	SequenceNumber int    `json:"actionNumber"` // chronological order within the log
	ActionType     string `json:"actionType"`   // e.g. "2pt", "foul", "rebound", "jumpball"
	TeamID         *int64 `json:"teamId,omitempty"`

	PrimaryParticipant *string `json:"playerNameI,omitempty"` // "initial. surname" display name

	// Running totals as of this action, not deltas.
	PointsRunningTotal  *int `json:"pointsTotal,omitempty"`
	ReboundRunningTotal *int `json:"reboundTotal,omitempty"`

	// Secondary attributions.
	AssistParticipant       *string `json:"assistPlayerNameInitial,omitempty"`
	FoulDrawnParticipant    *string `json:"foulDrawnPlayerName,omitempty"`
	JumpBallWonParticipant  *string `json:"jumpBallWonPlayerName,omitempty"`
	JumpBallLostParticipant *string `json:"jumpBallLostPlayerName,omitempty"`
}

// Game is the "game" object of a play-by-play feed.
type Game struct {
	GameID  string  `json:"gameId"`
	Actions []Event `json:"actions"`
}

// Feed is the top-level play-by-play document.
type Feed struct {
	Game *Game `json:"game"`
}

// Primary returns the primary participant and whether it is set and non-empty.
func (e Event) Primary() (string, bool) {
	if e.PrimaryParticipant == nil || *e.PrimaryParticipant == "" {
		return "", false
	}
	return *e.PrimaryParticipant, true
}

// Team returns the team id and whether it is set.
func (e Event) Team() (int64, bool) {
	if e.TeamID == nil {
		return 0, false
	}
	return *e.TeamID, true
}

// StringPtr returns a pointer to s. Handy for building events in code and tests.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// TeamPtr returns a pointer to a team id.
func TeamPtr(v int64) *int64 { return &v }
