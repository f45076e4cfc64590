package sim

import (
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// futureLedgerYears is how many seasons past the draft year each team's
// future-pick ledger is seeded with.
const futureLedgerYears = 3

// BuildPickOrder expands a single-round team order into the full slot list.
// The same order repeats every round; trades later reassign control through
// the override fields without touching Overall.
func BuildPickOrder(teamOrder []string, rounds int) []models.DraftSlot {
	order := make([]models.DraftSlot, 0, len(teamOrder)*rounds)
	for round := 1; round <= rounds; round++ {
		for i, team := range teamOrder {
			order = append(order, models.DraftSlot{
				Overall: (round-1)*len(teamOrder) + i + 1,
				Round:   round,
				Pick:    i + 1,
				Team:    team,
			})
		}
	}
	return order
}

// NewDraft creates a lobby draft from a team order template. Teams absent
// from assignments (or mapped to "") are CPU-controlled. Each team's
// future-pick ledger starts with its own picks for the seasons after the
// draft year.
func NewDraft(cfg models.DraftConfig, teamOrder []string, assignments map[string]string, now time.Time) *models.Draft {
	d := &models.Draft{
		ID:     uuid.New(),
		Config: cfg,
		Status: models.DraftStatusLobby,

		CurrentPick:  1,
		CurrentRound: 1,

		TeamAssignments: make(map[string]string, len(assignments)),
		PickOrder:       BuildPickOrder(teamOrder, cfg.Rounds),
		FuturePicks:     make(map[string][]models.FuturePick, len(teamOrder)),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for team, user := range assignments {
		d.TeamAssignments[team] = user
	}

	for _, team := range teamOrder {
		ledger := make([]models.FuturePick, 0, futureLedgerYears*cfg.Rounds)
		for yearOffset := 1; yearOffset <= futureLedgerYears; yearOffset++ {
			for round := 1; round <= cfg.Rounds; round++ {
				ledger = append(ledger, models.FuturePick{
					Year:         cfg.Year + yearOffset,
					Round:        round,
					OriginalTeam: team,
				})
			}
		}
		d.FuturePicks[team] = ledger
	}

	return d
}
