// Package types contains common types used across the application
package types

import "fmt"

// Roster maps a stringified team id to the distinct participant names seen
// for that team, in first-seen order.
type Roster map[string][]string

// ParticipantAction is one entry of a participant's action view.
type ParticipantAction struct {
	ActionType string `json:"actionType"`
}

// TotalsEntry holds one participant's cumulative stat line.
type TotalsEntry struct {
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Rebounds int    `json:"rebounds"`
	Assists  int    `json:"assists"`
}

// String renders the entry as "Name: PTS: n | REB: n | AST: n".
func (e TotalsEntry) String() string {
	return fmt.Sprintf("%s: PTS: %d | REB: %d | AST: %d", e.Name, e.Points, e.Rebounds, e.Assists)
}

// TeamTotals maps a stringified team id to its ranked, formatted stat lines.
type TeamTotals map[string][]string
