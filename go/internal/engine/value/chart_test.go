package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickValueStrictlyDecreasing(t *testing.T) {
	prev := PickValue(1)
	for overall := 2; overall <= MaxOverall; overall++ {
		v := PickValue(overall)
		require.Lessf(t, v, prev, "value must strictly decrease at overall %d", overall)
		prev = v
	}
}

func TestPickValueChartShape(t *testing.T) {
	assert.Greater(t, PickValue(1), PickValue(32), "pick 1 must beat end of round 1")
	assert.Greater(t, PickValue(32), PickValue(100), "round 1 must beat round 4")

	// Steep early decay, flat late: the first-round drop dwarfs an
	// equal-width drop in day three.
	earlyDrop := PickValue(1) - PickValue(32)
	lateDrop := PickValue(150) - PickValue(181)
	assert.Greater(t, earlyDrop, 5*lateDrop, "early decay should dominate late decay")
}

func TestPickValueClampsDomain(t *testing.T) {
	assert.Equal(t, PickValue(1), PickValue(0), "below-range picks clamp to 1")
	assert.Equal(t, PickValue(1), PickValue(-40), "negative picks clamp to 1")
	assert.Equal(t, PickValue(MaxOverall), PickValue(MaxOverall+50), "above-range picks clamp to the last slot")
}

func TestFuturePickValueDiscounts(t *testing.T) {
	currentFirst := PickValue(16)
	futureFirst := FuturePickValue(1, 1)
	assert.Less(t, futureFirst, currentFirst, "a future 1st is worth less than a current mid-1st")

	assert.Less(t, FuturePickValue(1, 2), FuturePickValue(1, 1), "discount must compound per year")
	assert.Less(t, FuturePickValue(2, 1), FuturePickValue(1, 1), "later rounds are worth less")

	// Degenerate inputs clamp instead of misbehaving.
	assert.Equal(t, FuturePickValue(1, 1), FuturePickValue(0, 0))
	assert.Positive(t, FuturePickValue(99, 3))
}

func TestBaseSurplusValuePeaksAfterPickOne(t *testing.T) {
	peak := 1
	peakValue := BaseSurplusValue(1)
	for overall := 2; overall <= 64; overall++ {
		if v := BaseSurplusValue(overall); v > peakValue {
			peak = overall
			peakValue = v
		}
	}
	require.Greater(t, peak, 1, "surplus peak must not be pick 1")
	require.Less(t, peak, 21, "surplus peak should sit in the early teens")

	// Decreasing away from the peak in both directions.
	for overall := peak; overall > 1; overall-- {
		assert.LessOrEqualf(t, BaseSurplusValue(overall-1), BaseSurplusValue(overall),
			"surplus must not increase moving up from the peak at %d", overall-1)
	}
	for overall := peak; overall < MaxOverall; overall++ {
		assert.LessOrEqualf(t, BaseSurplusValue(overall+1), BaseSurplusValue(overall),
			"surplus must not increase moving down from the peak at %d", overall+1)
	}
}
