package aggregate_test

import (
	"strconv"

	"github.com/okian/courtside/internal/domain/model"
)

// ev builds events tersely for table-style fixtures.
type ev struct {
	seq      int
	action   string
	team     int64 // 0 means absent
	name     string
	points   *int
	rebounds *int
	assist   string
	foul     string
	jumpWon  string
	jumpLost string
}

func (e ev) event() model.Event {
	out := model.Event{
		SequenceNumber:      e.seq,
		ActionType:          e.action,
		PointsRunningTotal:  e.points,
		ReboundRunningTotal: e.rebounds,
	}
	if e.team != 0 {
		out.TeamID = model.TeamPtr(e.team)
	}
	if e.name != "" {
		out.PrimaryParticipant = model.StringPtr(e.name)
	}
	if e.assist != "" {
		out.AssistParticipant = model.StringPtr(e.assist)
	}
	if e.foul != "" {
		out.FoulDrawnParticipant = model.StringPtr(e.foul)
	}
	if e.jumpWon != "" {
		out.JumpBallWonParticipant = model.StringPtr(e.jumpWon)
	}
	if e.jumpLost != "" {
		out.JumpBallLostParticipant = model.StringPtr(e.jumpLost)
	}
	return out
}

func events(in ...ev) []model.Event {
	out := make([]model.Event, len(in))
	for i, e := range in {
		out[i] = e.event()
	}
	return out
}

func n(v int) *int { return &v }

// totalsFixture is the two-team game used across totals tests.
func totalsFixture() []model.Event {
	return events(
		ev{seq: 2, name: "Player1", team: 123, points: n(2), assist: "Player2"},
		ev{seq: 3, name: "Player1", team: 123, rebounds: n(1)},
		ev{seq: 4, name: "Player1", team: 123, points: n(5)},
		ev{seq: 5, name: "Player3", team: 456, points: n(3), assist: "Player2"},
		ev{seq: 6, name: "Player2", team: 123, points: n(2)},
		ev{seq: 7, name: "Player2", team: 123, rebounds: n(2)},
		ev{seq: 8, name: "Player2", team: 123, points: n(3), assist: "Player1"},
		ev{seq: 9, name: "Player3", team: 456, points: n(5)},
		ev{seq: 10, name: "Player3", team: 456, rebounds: n(1), assist: "Player2"},
	)
}

func formatTeam(id int64) string { return strconv.FormatInt(id, 10) }
