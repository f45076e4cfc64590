package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func TestExecuteMovesCurrentPicksBothWays(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d,
		[]models.TradePiece{models.CurrentPiece(3)},
		[]models.TradePiece{models.CurrentPiece(4), models.CurrentPiece(6)},
	)

	ex, err := Execute(tr, d)
	require.NoError(t, err)

	assert.Equal(t, "NYG", ex.PickOrder[2].TeamOverride)
	assert.True(t, ex.PickOrder[2].OwnerOverride)
	assert.Equal(t, "DAL", ex.PickOrder[3].TeamOverride)
	assert.Equal(t, "DAL", ex.PickOrder[5].TeamOverride)

	// Untouched slots keep their original ownership.
	assert.Empty(t, ex.PickOrder[0].TeamOverride)
	assert.False(t, ex.PickOrder[0].OwnerOverride)

	// The input draft is a snapshot and stays unchanged.
	assert.Empty(t, d.PickOrder[2].TeamOverride)
	assert.Empty(t, d.PickOrder[3].TeamOverride)
}

func TestExecuteMovesFuturePicksBetweenLedgers(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d,
		[]models.TradePiece{models.FuturePiece(2027, 1, "DAL")},
		[]models.TradePiece{models.FuturePiece(2027, 2, "NYG")},
	)

	ex, err := Execute(tr, d)
	require.NoError(t, err)

	assert.ElementsMatch(t, []models.FuturePick{{Year: 2027, Round: 2, OriginalTeam: "NYG"}}, ex.FuturePicks["DAL"])
	assert.ElementsMatch(t, []models.FuturePick{{Year: 2027, Round: 1, OriginalTeam: "DAL"}}, ex.FuturePicks["NYG"])

	// Ledger copies, not aliases.
	assert.Len(t, d.FuturePicks["DAL"], 1)
	assert.Equal(t, 2027, d.FuturePicks["DAL"][0].Year)
	assert.Equal(t, 1, d.FuturePicks["DAL"][0].Round)
}

func TestExecuteIsIdempotent(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d,
		[]models.TradePiece{models.CurrentPiece(3), models.FuturePiece(2027, 1, "DAL")},
		[]models.TradePiece{models.CurrentPiece(4)},
	)

	once, err := Execute(tr, d)
	require.NoError(t, err)

	// Re-apply the same trade to the already-applied state.
	applied := *d
	applied.PickOrder = once.PickOrder
	applied.FuturePicks = once.FuturePicks

	twice, err := Execute(tr, &applied)
	require.NoError(t, err)

	assert.Equal(t, once.PickOrder, twice.PickOrder)
	assert.Equal(t, once.FuturePicks["NYG"], twice.FuturePicks["NYG"])
	assert.Equal(t, once.FuturePicks["DAL"], twice.FuturePicks["DAL"])
	assert.Len(t, twice.FuturePicks["NYG"], 2, "no double-move of the future pick")
}

func TestExecuteUnknownSlotFails(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d, []models.TradePiece{models.CurrentPiece(500)}, nil)

	_, err := Execute(tr, d)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
