package probe

import (
	"fmt"
	"sort"
	"strings"
)

const linePointsMarker = ": PTS: "

// ParseLine parses "{name}: PTS: {n} | REB: {n} | AST: {n}".
func ParseLine(s string) (Line, error) {
	idx := strings.LastIndex(s, linePointsMarker)
	if idx <= 0 {
		return Line{}, fmt.Errorf("%w: %q", ErrBadLine, s)
	}
	l := Line{Name: s[:idx]}
	rest := s[idx+len(linePointsMarker):]
	n, err := fmt.Sscanf(rest, "%d | REB: %d | AST: %d", &l.Points, &l.Rebounds, &l.Assists)
	if err != nil || n != 3 {
		return Line{}, fmt.Errorf("%w: %q", ErrBadLine, s)
	}
	if l.String() != s {
		return Line{}, fmt.Errorf("%w: %q", ErrBadLine, s)
	}
	return l, nil
}

func (l Line) String() string {
	return fmt.Sprintf("%s: PTS: %d | REB: %d | AST: %d", l.Name, l.Points, l.Rebounds, l.Assists)
}

// verifyTotals checks that every roster name has exactly one totals line
// under the same team, that no team has extra lines, and that each team's
// lines are ordered by points, rebounds, then assists, all descending.
func verifyTotals(roster, totals map[string][]string) error {
	if len(roster) != len(totals) {
		return fmt.Errorf("%w: %d roster teams, %d totals teams", ErrInconsistent, len(roster), len(totals))
	}

	for _, team := range sortedKeys(roster) {
		names := roster[team]
		raw, ok := totals[team]
		if !ok {
			return fmt.Errorf("%w: team %s missing from totals", ErrInconsistent, team)
		}
		if len(raw) != len(names) {
			return fmt.Errorf("%w: team %s has %d players but %d lines", ErrInconsistent, team, len(names), len(raw))
		}

		lines := make([]Line, len(raw))
		seen := make(map[string]int, len(raw))
		for i, s := range raw {
			l, err := ParseLine(s)
			if err != nil {
				return fmt.Errorf("team %s: %w", team, err)
			}
			lines[i] = l
			seen[l.Name]++
		}
		for _, name := range names {
			if seen[name] != 1 {
				return fmt.Errorf("%w: team %s has %d lines for %q", ErrInconsistent, team, seen[name], name)
			}
		}
		for i := 1; i < len(lines); i++ {
			if outranks(lines[i], lines[i-1]) {
				return fmt.Errorf("%w: team %s line %d (%s) outranks line %d", ErrUnranked, team, i, lines[i].Name, i-1)
			}
		}
	}
	return nil
}

// outranks reports whether a must be listed strictly ahead of b.
func outranks(a, b Line) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Rebounds != b.Rebounds {
		return a.Rebounds > b.Rebounds
	}
	return a.Assists > b.Assists
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
