package aggregate

import (
	"sort"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/types"
)

// snapshot is the latest running total seen for a participant.
type snapshot struct {
	seq   int
	value int
}

// latestTotals keeps, per exact primary participant name, the running total
// carried by the highest sequence number.
type latestTotals map[string]snapshot

func (l latestTotals) observe(name string, seq int, value *int) {
	if value == nil {
		return
	}
	if cur, ok := l[name]; ok && cur.seq >= seq {
		return
	}
	l[name] = snapshot{seq: seq, value: *value}
}

func (l latestTotals) get(name string) int {
	return l[name].value
}

// TeamTotals computes ranked stat lines for every rostered participant.
//
// Points and rebounds are last-value-wins by sequence number, never summed.
// Assists are counted by occurrence, matching names case-insensitively.
// Within a team, lines are ordered by points, rebounds, then assists, all
// descending; full ties keep roster order.
func TeamTotals(events []model.Event) map[string][]types.TotalsEntry {
	points := make(latestTotals)
	rebounds := make(latestTotals)
	assists := make(map[string]int)

	for _, e := range events {
		if e.AssistParticipant != nil {
			assists[normalize(*e.AssistParticipant)]++
		}
		if e.PrimaryParticipant == nil {
			continue
		}
		name := *e.PrimaryParticipant
		points.observe(name, e.SequenceNumber, e.PointsRunningTotal)
		rebounds.observe(name, e.SequenceNumber, e.ReboundRunningTotal)
	}

	rosters := buildRosters(events)
	out := make(map[string][]types.TotalsEntry, len(rosters))
	for _, tr := range rosters {
		entries := make([]types.TotalsEntry, 0, len(tr.names))
		for _, name := range tr.names {
			entries = append(entries, types.TotalsEntry{
				Name:     name,
				Points:   points.get(name),
				Rebounds: rebounds.get(name),
				Assists:  assists[normalize(name)],
			})
		}
		rank(entries)
		out[tr.key] = entries
	}
	return out
}

// TotalsByTeam is TeamTotals rendered as display strings.
func TotalsByTeam(events []model.Event) types.TeamTotals {
	ranked := TeamTotals(events)
	out := make(types.TeamTotals, len(ranked))
	for team, entries := range ranked {
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.String()
		}
		out[team] = lines
	}
	return out
}

// rank orders entries in place: points, rebounds, assists, all descending.
func rank(entries []types.TotalsEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return ranksBefore(entries[i], entries[j])
	})
}

// ranksBefore reports whether a should be listed ahead of b.
func ranksBefore(a, b types.TotalsEntry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Rebounds != b.Rebounds {
		return a.Rebounds > b.Rebounds
	}
	return a.Assists > b.Assists
}
