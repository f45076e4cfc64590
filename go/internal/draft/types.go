package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// CreateDraftRequest carries everything needed to set up a lobby draft.
type CreateDraftRequest struct {
	Config          models.DraftConfig `json:"config"`
	TeamOrder       []string           `json:"team_order"`
	TeamAssignments map[string]string  `json:"team_assignments"`
}

// ProposeTradeRequest is a user's trade proposal. RecipientID is empty when
// the recipient team is CPU controlled.
type ProposeTradeRequest struct {
	DraftID          uuid.UUID           `json:"draft_id"`
	ProposerID       string              `json:"proposer_id"`
	ProposerTeam     string              `json:"proposer_team"`
	RecipientID      string              `json:"recipient_id,omitempty"`
	RecipientTeam    string              `json:"recipient_team"`
	ProposerGives    []models.TradePiece `json:"proposer_gives"`
	ProposerReceives []models.TradePiece `json:"proposer_receives"`
	IsForceTrade     bool                `json:"is_force_trade,omitempty"`
}

// NextDeadline is the soonest pick deadline across all active drafts, used
// by the orchestrator's scheduler loop.
type NextDeadline struct {
	DraftID  uuid.UUID  `json:"draft_id"`
	Deadline *time.Time `json:"deadline"`
}

// DuePick identifies a draft whose pick deadline has passed, together with
// the overall slot the deadline was armed for. The timeout handler re-checks
// the slot against fresh state before acting.
type DuePick struct {
	DraftID uuid.UUID `json:"draft_id"`
	Overall int       `json:"overall"`
}

// State is the gateway's read model: the draft snapshot plus its pick log.
type State struct {
	Draft *models.Draft `json:"draft"`
	Picks []models.Pick `json:"picks"`
}
