// Package control resolves who is on the clock for a draft slot.
package control

import (
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Controller resolves the user controlling the slot. A trade-induced
// TeamOverride takes precedence over the slot's original team. The second
// return is false when the CPU controls the slot (no assignment, or an
// empty one).
//
// Controller is total: it never fails, and it is re-derivable at any time
// from the draft and slot alone.
func Controller(draft *models.Draft, slot models.DraftSlot) (string, bool) {
	if draft == nil {
		return "", false
	}
	team := slot.Team
	if slot.TeamOverride != "" {
		team = slot.TeamOverride
	}
	userID, ok := draft.TeamAssignments[team]
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// IsUserTurn reports whether userID controls the draft's current slot.
func IsUserTurn(draft *models.Draft, userID string) bool {
	if draft == nil || draft.Status != models.DraftStatusActive {
		return false
	}
	slot := draft.SlotAt(draft.CurrentPick)
	if slot == nil {
		return false
	}
	controller, human := Controller(draft, *slot)
	return human && controller == userID
}
