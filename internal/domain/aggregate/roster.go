package aggregate

import (
	"strconv"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/types"
)

// teamRoster is one team's distinct names in first-seen order.
type teamRoster struct {
	key   string
	names []string
	seen  map[string]struct{}
}

// buildRosters groups primary participants by team. Events without a team id
// or a primary participant are skipped. Teams come back in first-seen order.
func buildRosters(events []model.Event) []*teamRoster {
	byTeam := make(map[int64]*teamRoster)
	var order []*teamRoster

	for _, e := range events {
		name, ok := e.Primary()
		if !ok {
			continue
		}
		teamID, ok := e.Team()
		if !ok {
			continue
		}

		tr, exists := byTeam[teamID]
		if !exists {
			tr = &teamRoster{
				key:  strconv.FormatInt(teamID, 10),
				seen: make(map[string]struct{}),
			}
			byTeam[teamID] = tr
			order = append(order, tr)
		}
		if _, dup := tr.seen[name]; dup {
			continue
		}
		tr.seen[name] = struct{}{}
		tr.names = append(tr.names, name)
	}

	return order
}

// RosterByTeam maps each team id (as a string) to the distinct primary
// participant names observed for it. The result is never nil.
func RosterByTeam(events []model.Event) types.Roster {
	rosters := buildRosters(events)
	out := make(types.Roster, len(rosters))
	for _, tr := range rosters {
		out[tr.key] = tr.names
	}
	return out
}
