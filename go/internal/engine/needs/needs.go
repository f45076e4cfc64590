// Package needs derives a team's remaining positional needs from its static
// preseason need list and the positions its completed picks already filled.
package needs

import (
	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// TeamDraftedPositions returns the positions already selected by the team's
// completed picks, in pick order. Slots acquired via trade count toward the
// team that controlled them at selection time.
func TeamDraftedPositions(pickOrder []models.DraftSlot, pickedPlayerIDs []uuid.UUID, team string, players map[uuid.UUID]models.Player) []models.Position {
	var drafted []models.Position
	for i, playerID := range pickedPlayerIDs {
		if i >= len(pickOrder) {
			break
		}
		if pickOrder[i].ControllingTeam() != team {
			continue
		}
		if p, ok := players[playerID]; ok {
			drafted = append(drafted, p.Position)
		}
	}
	return drafted
}

// EffectiveNeeds returns the needs still unaddressed: each drafted position
// consumes at most one matching entry from staticNeeds, and the order of the
// remaining needs is preserved. staticNeeds is never mutated.
func EffectiveNeeds(staticNeeds []models.Position, draftedPositions []models.Position) []models.Position {
	remainingBudget := make(map[models.Position]int, len(draftedPositions))
	for _, pos := range draftedPositions {
		remainingBudget[pos]++
	}

	remaining := make([]models.Position, 0, len(staticNeeds))
	for _, need := range staticNeeds {
		if remainingBudget[need] > 0 {
			remainingBudget[need]--
			continue
		}
		remaining = append(remaining, need)
	}
	return remaining
}
