// Package feed retrieves and decodes the upstream play-by-play feed.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/okian/courtside/internal/domain/model"
)

// Decode parses a raw feed payload into its ordered event sequence.
// A payload without a game object or an actions array is ErrEmptyFeed.
func Decode(payload []byte) ([]model.Event, error) {
	var envelope struct {
		Game *struct {
			GameID  string         `json:"gameId"`
			Actions *[]model.Event `json:"actions"`
		} `json:"game"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}
	if envelope.Game == nil || envelope.Game.Actions == nil {
		return nil, ErrEmptyFeed
	}
	return *envelope.Game.Actions, nil
}
