package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/engine/control"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

var (
	// ErrDraftNotActive rejects pick commits against a draft that is not
	// on the clock.
	ErrDraftNotActive = errors.New("draft is not active")
	// ErrPlayerAlreadyPicked rejects a player id already selected.
	ErrPlayerAlreadyPicked = errors.New("player already picked")
	// ErrNotYourTurn rejects a commit by anyone but the current slot's
	// resolved controller.
	ErrNotYourTurn = errors.New("not this user's turn")
	// ErrSlotOutOfRange indicates the cursor points outside the pick order
	// on an active draft. Upstream data corruption, not a user error.
	ErrSlotOutOfRange = errors.New("current pick outside pick order")
)

// CommitPick records a player selection for the current slot. Human commits
// pass the acting user's id; CPU commits pass the empty string. On success it
// returns the new draft snapshot and the Pick record, advancing the cursor
// and flipping the status to complete atomically with the final pick.
//
// Rejections never mutate the input draft.
func CommitPick(d *models.Draft, userID string, playerID uuid.UUID, now time.Time) (*models.Draft, models.Pick, error) {
	if d.Status != models.DraftStatusActive {
		return nil, models.Pick{}, fmt.Errorf("%w: %s", ErrDraftNotActive, d.Status)
	}
	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return nil, models.Pick{}, fmt.Errorf("%w: pick %d of %d", ErrSlotOutOfRange, d.CurrentPick, len(d.PickOrder))
	}
	if d.HasPicked(playerID) {
		return nil, models.Pick{}, fmt.Errorf("%w: %s", ErrPlayerAlreadyPicked, playerID)
	}

	controller, human := control.Controller(d, *slot)
	if human && userID != controller {
		return nil, models.Pick{}, fmt.Errorf("%w: slot %d belongs to another user", ErrNotYourTurn, slot.Overall)
	}
	if !human && userID != "" {
		return nil, models.Pick{}, fmt.Errorf("%w: slot %d is CPU controlled", ErrNotYourTurn, slot.Overall)
	}

	return commit(d, slot, userID, playerID, now)
}

// CommitAutoPick records a timeout auto-pick for the current slot. It skips
// the controller gate entirely: the host has already decided the slot's timer
// expired, and the Pick carries no user id regardless of who controls the
// slot.
func CommitAutoPick(d *models.Draft, playerID uuid.UUID, now time.Time) (*models.Draft, models.Pick, error) {
	if d.Status != models.DraftStatusActive {
		return nil, models.Pick{}, fmt.Errorf("%w: %s", ErrDraftNotActive, d.Status)
	}
	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return nil, models.Pick{}, fmt.Errorf("%w: pick %d of %d", ErrSlotOutOfRange, d.CurrentPick, len(d.PickOrder))
	}
	if d.HasPicked(playerID) {
		return nil, models.Pick{}, fmt.Errorf("%w: %s", ErrPlayerAlreadyPicked, playerID)
	}

	return commit(d, slot, "", playerID, now)
}

func commit(d *models.Draft, slot *models.DraftSlot, userID string, playerID uuid.UUID, now time.Time) (*models.Draft, models.Pick, error) {
	pick := models.Pick{
		ID:       uuid.New(),
		DraftID:  d.ID,
		Overall:  slot.Overall,
		Round:    slot.Round,
		Pick:     slot.Pick,
		Team:     slot.ControllingTeam(),
		UserID:   userID,
		PlayerID: playerID,
		MadeAt:   now,
	}

	out := copyDraft(d)
	out.PickedPlayerIDs = append(out.PickedPlayerIDs, playerID)
	out.CurrentPick++
	out.UpdatedAt = now

	if next := out.SlotAt(out.CurrentPick); next != nil {
		out.CurrentRound = next.Round
	} else {
		out.Status = models.DraftStatusComplete
	}

	return out, pick, nil
}
