package cpu

import (
	"sort"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// normalizedTuning is a CPUTuning with every knob clamped into its documented
// range, so the selector never has to defend against misconfiguration.
type normalizedTuning struct {
	randomness        float64
	needsWeight       float64
	positionalWeights map[models.Position]float64
	needBoosts        []float64
	spreadThresholds  []float64
	boardRank         map[uuid.UUID]int
}

func normalizeTuning(t models.CPUTuning) normalizedTuning {
	defaults := DefaultTuning()

	norm := normalizedTuning{
		randomness:  clamp01(t.Randomness),
		needsWeight: clamp01(t.NeedsWeight),
	}

	norm.positionalWeights = make(map[models.Position]float64, len(t.PositionalWeights))
	for pos, w := range t.PositionalWeights {
		if w > 0 {
			norm.positionalWeights[pos] = w
		}
	}

	norm.needBoosts = sanitizeBoosts(t.NeedBoosts, defaults.NeedBoosts)
	norm.spreadThresholds = sanitizeThresholds(t.SpreadThresholds, defaults.SpreadThresholds)

	if len(t.Board) > 0 {
		norm.boardRank = make(map[uuid.UUID]int, len(t.Board))
		for i, id := range t.Board {
			if _, dup := norm.boardRank[id]; !dup {
				norm.boardRank[id] = i + 1
			}
		}
	}

	return norm
}

// sanitizeBoosts keeps a boost list usable: every entry at least 1, falling
// back to the defaults when the list is empty.
func sanitizeBoosts(boosts, fallback []float64) []float64 {
	if len(boosts) == 0 {
		return fallback
	}
	out := make([]float64, len(boosts))
	for i, b := range boosts {
		if b < 1 {
			b = 1
		}
		out[i] = b
	}
	return out
}

// sanitizeThresholds requires a strictly increasing cumulative list ending at
// 1; anything else falls back to the defaults rather than producing an
// unreachable candidate.
func sanitizeThresholds(thresholds, fallback []float64) []float64 {
	if len(thresholds) == 0 || len(thresholds) > shortlistSize {
		return fallback
	}
	if !sort.Float64sAreSorted(thresholds) {
		return fallback
	}
	prev := 0.0
	for _, th := range thresholds {
		if th <= prev || th > 1 {
			return fallback
		}
		prev = th
	}
	if thresholds[len(thresholds)-1] != 1 {
		return fallback
	}
	return thresholds
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
