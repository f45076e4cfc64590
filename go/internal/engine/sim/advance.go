package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/engine/control"
	"github.com/gridironlabs/mockdraft/go/internal/engine/cpu"
	"github.com/gridironlabs/mockdraft/go/internal/engine/needs"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Outcome classifies what a single advance step did.
type Outcome string

const (
	// OutcomeNoOp: the draft was not active, or the cursor had already
	// walked off the order.
	OutcomeNoOp Outcome = "NO_OP"
	// OutcomeAwaitingHuman: the current slot is human controlled; the host
	// arms a pick timer and waits for a commit.
	OutcomeAwaitingHuman Outcome = "AWAITING_HUMAN"
	// OutcomeCPUPicked: one CPU pick was committed and more turns remain.
	OutcomeCPUPicked Outcome = "CPU_PICKED"
	// OutcomeComplete: the committed pick was the last one.
	OutcomeComplete Outcome = "COMPLETE"
)

// TurnResult is the outcome of one advance step. Draft is always the
// snapshot to persist (the input snapshot on a no-op); Pick is set only when
// a CPU pick was committed.
type TurnResult struct {
	Draft   *models.Draft
	Pick    *models.Pick
	Outcome Outcome
}

// AdvanceOneTurn processes at most one turn: it classifies the current slot
// and, when the CPU is on the clock, synthesizes and commits exactly one
// pick. Hosts loop it per the draft's CPU speed: instant mode drains
// consecutive CPU turns in one synchronous loop (AdvanceUntilHuman), timed
// modes take one step per tick.
//
// needsByTeam is the static preseason need list per team. An empty player
// pool on a CPU turn is unrecoverable and surfaces cpu.ErrNoPlayersAvailable.
func AdvanceOneTurn(d *models.Draft, allPlayers []models.Player, needsByTeam map[string][]models.Position, rng *rand.Rand, now time.Time) (TurnResult, error) {
	if d.Status != models.DraftStatusActive {
		return TurnResult{Draft: d, Outcome: OutcomeNoOp}, nil
	}
	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return TurnResult{Draft: d, Outcome: OutcomeNoOp}, nil
	}

	if _, human := control.Controller(d, *slot); human {
		return TurnResult{Draft: d, Outcome: OutcomeAwaitingHuman}, nil
	}

	available := AvailablePlayers(allPlayers, d)
	if len(available) == 0 {
		return TurnResult{}, fmt.Errorf("advance draft %s at pick %d: %w", d.ID, d.CurrentPick, cpu.ErrNoPlayersAvailable)
	}

	team := slot.ControllingTeam()
	catalog := playerIndex(allPlayers)
	drafted := needs.TeamDraftedPositions(d.PickOrder, d.PickedPlayerIDs, team, catalog)
	effective := needs.EffectiveNeeds(needsByTeam[team], drafted)

	player, err := cpu.SelectPick(available, effective, d.Config.Tuning, rng)
	if err != nil {
		return TurnResult{}, fmt.Errorf("select pick for %s: %w", team, err)
	}

	next, pick, err := CommitPick(d, "", player.ID, now)
	if err != nil {
		return TurnResult{}, fmt.Errorf("commit cpu pick for %s: %w", team, err)
	}

	outcome := OutcomeCPUPicked
	if next.Status == models.DraftStatusComplete {
		outcome = OutcomeComplete
	}
	return TurnResult{Draft: next, Pick: &pick, Outcome: outcome}, nil
}

// AdvanceUntilHuman drains consecutive CPU turns until a human is on the
// clock, the draft completes, or nothing is left to do. The instant-speed
// batching strategy.
func AdvanceUntilHuman(d *models.Draft, allPlayers []models.Player, needsByTeam map[string][]models.Position, rng *rand.Rand, now time.Time) (*models.Draft, []models.Pick, Outcome, error) {
	var picks []models.Pick
	current := d
	for {
		res, err := AdvanceOneTurn(current, allPlayers, needsByTeam, rng, now)
		if err != nil {
			return nil, nil, "", err
		}
		current = res.Draft
		if res.Pick != nil {
			picks = append(picks, *res.Pick)
		}
		if res.Outcome != OutcomeCPUPicked {
			return current, picks, res.Outcome, nil
		}
	}
}

// AvailablePlayers filters the catalog down to undrafted players, preserving
// catalog order.
func AvailablePlayers(allPlayers []models.Player, d *models.Draft) []models.Player {
	picked := make(map[uuid.UUID]bool, len(d.PickedPlayerIDs))
	for _, id := range d.PickedPlayerIDs {
		picked[id] = true
	}

	available := make([]models.Player, 0, len(allPlayers)-len(picked))
	for _, p := range allPlayers {
		if !picked[p.ID] {
			available = append(available, p)
		}
	}
	return available
}

func playerIndex(allPlayers []models.Player) map[uuid.UUID]models.Player {
	idx := make(map[uuid.UUID]models.Player, len(allPlayers))
	for _, p := range allPlayers {
		idx[p.ID] = p
	}
	return idx
}
