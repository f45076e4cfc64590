// Package sim implements the draft progression state machine: lifecycle
// transitions, the shared commit-pick operation, and the one-turn advance
// primitive the hosts loop over. Every operation takes a draft snapshot and
// returns a new one; callers persist the result and serialize per draft.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// ErrInvalidTransition is returned when a lifecycle operation is applied to
// a draft whose current status does not permit it.
var ErrInvalidTransition = errors.New("invalid draft status transition")

// Start moves a lobby draft onto the clock.
func Start(d *models.Draft, now time.Time) (*models.Draft, error) {
	return transition(d, models.DraftStatusActive, now, models.DraftStatusLobby)
}

// Pause suspends an active draft. Hosts stop calling AdvanceOneTurn and
// cancel any pending pick timer.
func Pause(d *models.Draft, now time.Time) (*models.Draft, error) {
	return transition(d, models.DraftStatusPaused, now, models.DraftStatusActive)
}

// Resume puts a paused draft back on the clock.
func Resume(d *models.Draft, now time.Time) (*models.Draft, error) {
	return transition(d, models.DraftStatusActive, now, models.DraftStatusPaused)
}

// Cancel terminates a draft that has not yet completed.
func Cancel(d *models.Draft, now time.Time) (*models.Draft, error) {
	return transition(d, models.DraftStatusCancelled, now,
		models.DraftStatusLobby, models.DraftStatusActive, models.DraftStatusPaused)
}

func transition(d *models.Draft, to models.DraftStatus, now time.Time, from ...models.DraftStatus) (*models.Draft, error) {
	allowed := false
	for _, s := range from {
		if d.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}

	out := copyDraft(d)
	out.Status = to
	out.UpdatedAt = now
	return out, nil
}

// copyDraft returns a snapshot the caller can mutate without aliasing the
// input's slices and maps.
func copyDraft(d *models.Draft) *models.Draft {
	out := *d

	out.PickOrder = append([]models.DraftSlot(nil), d.PickOrder...)
	out.PickedPlayerIDs = append(out.PickedPlayerIDs[:0:0], d.PickedPlayerIDs...)

	out.TeamAssignments = make(map[string]string, len(d.TeamAssignments))
	for team, user := range d.TeamAssignments {
		out.TeamAssignments[team] = user
	}

	out.FuturePicks = make(map[string][]models.FuturePick, len(d.FuturePicks))
	for team, ledger := range d.FuturePicks {
		out.FuturePicks[team] = append([]models.FuturePick(nil), ledger...)
	}

	return &out
}
