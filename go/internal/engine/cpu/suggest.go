package cpu

import (
	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/engine/control"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Reason tags why a suggestion was made.
type Reason string

const (
	ReasonTopNeed       Reason = "fills top need"
	ReasonBestAvailable Reason = "best player available"
)

// Suggestion is a read-only "best pick" recommendation for a human turn.
type Suggestion struct {
	PlayerID uuid.UUID `json:"player_id"`
	Reason   Reason    `json:"reason"`
}

// Suggest recommends a pick for userID using the selector's scoring with
// randomness forced to zero. It returns nil, not an error, when the draft is
// not active, it is not the user's turn, or no players remain; all of those
// are normal conditions.
func Suggest(draft *models.Draft, userID string, available []models.Player, effectiveNeeds []models.Position) *Suggestion {
	if draft == nil || !control.IsUserTurn(draft, userID) {
		return nil
	}
	if len(available) == 0 {
		return nil
	}

	norm := normalizeTuning(draft.Config.Tuning)
	norm.randomness = 0
	top := rankCandidates(available, effectiveNeeds, norm)[0]

	reason := ReasonBestAvailable
	if len(effectiveNeeds) > 0 && top.player.Position == effectiveNeeds[0] {
		reason = ReasonTopNeed
	}
	return &Suggestion{PlayerID: top.player.ID, Reason: reason}
}
