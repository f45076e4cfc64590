// Package value implements the static pick valuation curves used by the
// trade engine and the CPU selector. All functions are pure; out-of-range
// pick numbers are clamped to the nearest defined endpoint.
package value

import "math"

const (
	// MaxOverall is the last defined slot on the trade chart (7 rounds of 32).
	MaxOverall = 224

	// topPickValue anchors the chart: pick 1 is worth 3000 points, the
	// familiar trade-chart scale.
	topPickValue = 3000.0

	// chartDecay controls how steeply value falls off per overall pick.
	chartDecay = 0.0238

	// futureDiscount is the per-year multiplier applied to unmade picks.
	// A pick one year out keeps 70% of its current-year value.
	futureDiscount = 0.70

	// surplusPeakPick is where rookie-contract surplus peaks: just outside
	// the top of the first round, where talent is still premium but the
	// slotted contract is far cheaper.
	surplusPeakPick = 13.0

	surplusPeakValue = 1000.0
)

// PickValue returns the trade-chart value of a current-year slot. It is
// strictly decreasing in overall: steep through the first round, flattening
// in the later rounds.
func PickValue(overall int) float64 {
	p := clampOverall(overall)
	return topPickValue * math.Exp(-chartDecay*float64(p-1))
}

// FuturePickValue returns the value of an unmade future pick of the given
// round, yearsOut years beyond the current draft. The round is priced at its
// midpoint slot and the discount compounds per year, so a future 1st is
// worth noticeably less than a current 1st.
func FuturePickValue(round, yearsOut int) float64 {
	if round < 1 {
		round = 1
	}
	if round > MaxOverall/32 {
		round = MaxOverall / 32
	}
	if yearsOut < 1 {
		yearsOut = 1
	}
	mid := (round-1)*32 + 16
	return PickValue(mid) * math.Pow(futureDiscount, float64(yearsOut))
}

// BaseSurplusValue returns the rookie-contract surplus value of a slot. The
// curve peaks in the early teens rather than at pick 1 and decays on both
// sides of the peak.
func BaseSurplusValue(overall int) float64 {
	p := float64(clampOverall(overall))
	// Gamma-shaped curve: zero slope exactly at the peak, monotone on
	// either side of it.
	x := p / surplusPeakPick
	return surplusPeakValue * x * math.Exp(1-x)
}

func clampOverall(overall int) int {
	if overall < 1 {
		return 1
	}
	if overall > MaxOverall {
		return MaxOverall
	}
	return overall
}
