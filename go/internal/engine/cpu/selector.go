// Package cpu implements the CPU decision engine: the needs-weighted
// randomized pick selector and the deterministic pick suggestion built on
// the same scoring. Everything here is a pure function of its inputs plus an
// injected random source, so the same inputs and the same random draws always
// produce the same pick.
package cpu

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// ErrNoPlayersAvailable indicates the caller asked for a pick from an empty
// pool. This is an invariant violation on the caller's side, never a
// recoverable condition.
var ErrNoPlayersAvailable = errors.New("no players available to select")

// shortlistSize bounds how many top-scored candidates the randomized
// selector ever samples from.
const shortlistSize = 5

// DefaultTuning returns the stock CPU personality. Need boost #1 is the
// strongest pull; the spread thresholds keep the top candidate the modal
// choice even at full randomness.
func DefaultTuning() models.CPUTuning {
	return models.CPUTuning{
		Randomness:  0.35,
		NeedsWeight: 0.75,
		PositionalWeights: map[models.Position]float64{
			models.PositionQB:   1.25,
			models.PositionOT:   1.10,
			models.PositionEDGE: 1.10,
			models.PositionCB:   1.05,
			models.PositionWR:   1.05,
			models.PositionRB:   0.85,
			models.PositionK:    0.40,
			models.PositionP:    0.35,
		},
		NeedBoosts:       []float64{1.60, 1.40, 1.25, 1.15, 1.10},
		SpreadThresholds: []float64{0.50, 0.75, 0.88, 0.95, 1.00},
	}
}

// scoredCandidate pairs a player with its adjusted rank. Lower is better.
type scoredCandidate struct {
	player       models.Player
	adjustedRank float64
	baseRank     int
}

// SelectPick chooses exactly one player for a CPU-controlled turn.
//
// available must already exclude drafted players and be non-empty; it is
// conventionally sorted by consensus rank ascending but the selector does not
// rely on that. effectiveNeeds is the team's remaining need list in priority
// order. rng supplies every random draw, which makes selections replayable.
func SelectPick(available []models.Player, effectiveNeeds []models.Position, t models.CPUTuning, rng *rand.Rand) (models.Player, error) {
	if len(available) == 0 {
		return models.Player{}, ErrNoPlayersAvailable
	}

	norm := normalizeTuning(t)
	ranked := rankCandidates(available, effectiveNeeds, norm)

	if norm.randomness == 0 || len(ranked) == 1 {
		return ranked[0].player, nil
	}

	short := ranked
	if len(short) > len(norm.spreadThresholds) {
		short = short[:len(norm.spreadThresholds)]
	}

	// One uniform draw, scaled down by randomness so low-randomness
	// profiles collapse probability mass onto the top candidate. The
	// cumulative thresholds front-load the mass even at randomness 1.
	u := rng.Float64() * norm.randomness
	for i, cum := range norm.spreadThresholds[:len(short)] {
		if u < cum {
			return short[i].player, nil
		}
	}
	return short[len(short)-1].player, nil
}

// rankCandidates computes the adjusted rank for every candidate and returns
// them best first. Shared by the randomized selector and the suggestion
// engine.
func rankCandidates(available []models.Player, effectiveNeeds []models.Position, norm normalizedTuning) []scoredCandidate {
	needPriority := make(map[models.Position]int, len(effectiveNeeds))
	for i, pos := range effectiveNeeds {
		if _, seen := needPriority[pos]; !seen {
			needPriority[pos] = i
		}
	}

	ranked := make([]scoredCandidate, len(available))
	for i, p := range available {
		base := baseRank(p, norm.boardRank)
		adjusted := float64(base)

		if prio, hasNeed := needPriority[p.Position]; hasNeed {
			adjusted /= needMultiplier(prio, norm)
		}
		if w, ok := norm.positionalWeights[p.Position]; ok {
			adjusted /= w
		}

		ranked[i] = scoredCandidate{player: p, adjustedRank: adjusted, baseRank: base}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].adjustedRank != ranked[j].adjustedRank {
			return ranked[i].adjustedRank < ranked[j].adjustedRank
		}
		return ranked[i].baseRank < ranked[j].baseRank
	})
	return ranked
}

// baseRank resolves a candidate's rank: board position when a big board is
// supplied and lists the player, consensus rank otherwise.
func baseRank(p models.Player, boardRank map[uuid.UUID]int) int {
	if r, onBoard := boardRank[p.ID]; onBoard {
		return r
	}
	if p.ConsensusRank <= 0 {
		return models.UnrankedRank
	}
	return p.ConsensusRank
}

// needMultiplier scales from no pull at needsWeight 0 up to the configured
// maximum boost for the need's priority slot at needsWeight 1.
func needMultiplier(priority int, norm normalizedTuning) float64 {
	if priority >= len(norm.needBoosts) {
		priority = len(norm.needBoosts) - 1
	}
	maxBoost := norm.needBoosts[priority]
	return 1 + (maxBoost-1)*norm.needsWeight
}
