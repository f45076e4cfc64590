package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func activeDraftOnTheClock(userID string) *models.Draft {
	return &models.Draft{
		Status:          models.DraftStatusActive,
		CurrentPick:     1,
		CurrentRound:    1,
		TeamAssignments: map[string]string{"DAL": userID},
		PickOrder: []models.DraftSlot{
			{Overall: 1, Round: 1, Pick: 1, Team: "DAL"},
			{Overall: 2, Round: 1, Pick: 2, Team: "NYG"},
		},
	}
}

func TestSuggestNilWhenNotUsersTurn(t *testing.T) {
	available := pool(rankedPlayer(1, models.PositionQB))

	assert.Nil(t, Suggest(nil, "u1", available, nil))

	d := activeDraftOnTheClock("u1")
	assert.Nil(t, Suggest(d, "someone-else", available, nil))

	d.Status = models.DraftStatusPaused
	assert.Nil(t, Suggest(d, "u1", available, nil), "no suggestions while paused")

	d.Status = models.DraftStatusActive
	assert.Nil(t, Suggest(d, "u1", nil, nil), "empty pool yields no suggestion")
}

func TestSuggestBestAvailable(t *testing.T) {
	d := activeDraftOnTheClock("u1")
	best := rankedPlayer(1, models.PositionEDGE)
	available := pool(best, rankedPlayer(2, models.PositionCB))

	s := Suggest(d, "u1", available, []models.Position{models.PositionQB})
	require.NotNil(t, s)
	assert.Equal(t, best.ID, s.PlayerID)
	assert.Equal(t, ReasonBestAvailable, s.Reason)
}

func TestSuggestTopNeed(t *testing.T) {
	d := activeDraftOnTheClock("u1")
	d.Config.Tuning = models.CPUTuning{NeedsWeight: 1}
	qb := rankedPlayer(5, models.PositionQB)
	wr := rankedPlayer(6, models.PositionWR)

	s := Suggest(d, "u1", pool(qb, wr), []models.Position{models.PositionWR, models.PositionOT})
	require.NotNil(t, s)
	assert.Equal(t, wr.ID, s.PlayerID)
	assert.Equal(t, ReasonTopNeed, s.Reason)
}

func TestSuggestIgnoresRandomness(t *testing.T) {
	d := activeDraftOnTheClock("u1")
	d.Config.Tuning = models.CPUTuning{Randomness: 1}
	best := rankedPlayer(1, models.PositionOT)
	available := pool(best, rankedPlayer(2, models.PositionCB), rankedPlayer(3, models.PositionS))

	for i := 0; i < 25; i++ {
		s := Suggest(d, "u1", available, nil)
		require.NotNil(t, s)
		assert.Equal(t, best.ID, s.PlayerID, "suggestions never sample")
	}
}
