package aggregate

import (
	"fmt"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/types"
)

// AssistActionType replaces the action type of events the participant assisted.
const AssistActionType = "assist"

// EventsForParticipant returns, in input order, every event the named
// participant took part in: as primary actor, as assister, or by surname in
// the foul-drawn and jump-ball fields. Events the participant assisted are
// relabeled "assist". Returns ErrNoMatchingData when nothing qualifies.
func EventsForParticipant(events []model.Event, name string) ([]types.ParticipantAction, error) {
	target := normalize(name)
	if target == "" {
		return nil, fmt.Errorf("participant %q: %w", name, ErrNoMatchingData)
	}
	last := surname(target)

	var out []types.ParticipantAction
	for _, e := range events {
		assisted := sameName(e.AssistParticipant, target)
		involved := assisted ||
			sameName(e.PrimaryParticipant, target) ||
			containsSurname(e.FoulDrawnParticipant, last) ||
			containsSurname(e.JumpBallWonParticipant, last) ||
			containsSurname(e.JumpBallLostParticipant, last)
		if !involved {
			continue
		}

		actionType := e.ActionType
		if assisted {
			actionType = AssistActionType
		}
		out = append(out, types.ParticipantAction{ActionType: actionType})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("participant %q: %w", name, ErrNoMatchingData)
	}
	return out, nil
}
