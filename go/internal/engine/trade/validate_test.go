package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func twoTeamDraft() *models.Draft {
	order := make([]models.DraftSlot, 8)
	for i := range order {
		team := "DAL"
		if i%2 == 1 {
			team = "NYG"
		}
		order[i] = models.DraftSlot{Overall: i + 1, Round: i/2 + 1, Pick: i%2 + 1, Team: team}
	}
	return &models.Draft{
		ID:     uuid.New(),
		Config: models.DraftConfig{Rounds: 4, Year: 2026},
		Status: models.DraftStatusActive,

		CurrentPick:     3,
		CurrentRound:    2,
		TeamAssignments: map[string]string{"DAL": "u1"},
		PickedPlayerIDs: []uuid.UUID{uuid.New(), uuid.New()},
		PickOrder:       order,
		FuturePicks: map[string][]models.FuturePick{
			"DAL": {{Year: 2027, Round: 1, OriginalTeam: "DAL"}},
			"NYG": {{Year: 2027, Round: 2, OriginalTeam: "NYG"}},
		},
	}
}

func proposal(d *models.Draft, gives, receives []models.TradePiece) *models.Trade {
	return &models.Trade{
		ID:               uuid.New(),
		DraftID:          d.ID,
		Status:           models.TradeStatusPending,
		ProposerID:       "u1",
		ProposerTeam:     "DAL",
		RecipientTeam:    "NYG",
		ProposerGives:    gives,
		ProposerReceives: receives,
	}
}

func TestValidatePicksAvailableAcceptsCleanTrade(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d,
		[]models.TradePiece{models.CurrentPiece(3), models.FuturePiece(2027, 1, "DAL")},
		[]models.TradePiece{models.CurrentPiece(4), models.FuturePiece(2027, 2, "NYG")},
	)
	assert.NoError(t, ValidatePicksAvailable(tr, d, nil))
}

func TestValidatePicksAvailableRejectsMadePick(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d, []models.TradePiece{models.CurrentPiece(2)}, []models.TradePiece{models.CurrentPiece(4)})
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrPickAlreadyMade)

	// The cursor's own slot is still unmade.
	tr = proposal(d, []models.TradePiece{models.CurrentPiece(3)}, []models.TradePiece{models.CurrentPiece(4)})
	assert.NoError(t, ValidatePicksAvailable(tr, d, nil))
}

func TestValidatePicksAvailableRejectsUnknownSlot(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d, []models.TradePiece{models.CurrentPiece(99)}, nil)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrSlotNotFound)
}

func TestValidatePicksAvailableRejectsDuplicatePiece(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d,
		[]models.TradePiece{models.CurrentPiece(3)},
		[]models.TradePiece{models.CurrentPiece(3)},
	)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrDuplicatePiece)
}

func TestValidatePicksAvailableRejectsUnownedFuturePick(t *testing.T) {
	d := twoTeamDraft()
	tr := proposal(d, []models.TradePiece{models.FuturePiece(2027, 5, "DAL")}, nil)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrFuturePickNotOwned)

	// Held by NYG, offered by DAL.
	tr = proposal(d, []models.TradePiece{models.FuturePiece(2027, 2, "NYG")}, nil)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrFuturePickNotOwned)
}

func TestValidatePicksAvailableRejectsPromisedFuturePick(t *testing.T) {
	d := twoTeamDraft()
	piece := models.FuturePiece(2027, 1, "DAL")
	tr := proposal(d, []models.TradePiece{piece}, []models.TradePiece{models.CurrentPiece(4)})

	other := *proposal(d, []models.TradePiece{piece}, nil)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, []models.Trade{other}), ErrFuturePickPromised)

	// A resolved competing trade releases the piece.
	other.Status = models.TradeStatusRejected
	assert.NoError(t, ValidatePicksAvailable(tr, d, []models.Trade{other}))

	// A trade is never in competition with itself.
	assert.NoError(t, ValidatePicksAvailable(tr, d, []models.Trade{*tr}))
}

func TestValidatePicksAvailableRejectsSlotOfNonParty(t *testing.T) {
	d := twoTeamDraft()

	// Slot 4 was traded away to PHI earlier; NYG can no longer deliver it,
	// and accepting would rewrite a slot PHI never agreed to move.
	d.PickOrder[3].TeamOverride = "PHI"
	d.PickOrder[3].OwnerOverride = true
	tr := proposal(d, []models.TradePiece{models.CurrentPiece(3)}, []models.TradePiece{models.CurrentPiece(4)})
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrSlotNotControlled)

	// The proposer side is held to the same rule.
	d = twoTeamDraft()
	d.PickOrder[2].TeamOverride = "PHI"
	d.PickOrder[2].OwnerOverride = true
	tr = proposal(d, []models.TradePiece{models.CurrentPiece(3)}, nil)
	assert.ErrorIs(t, ValidatePicksAvailable(tr, d, nil), ErrSlotNotControlled)
}

func TestValidatePicksAvailableFollowsOverrides(t *testing.T) {
	d := twoTeamDraft()

	// Slot 4 came to DAL in an earlier trade, so DAL can now give it.
	d.PickOrder[3].TeamOverride = "DAL"
	d.PickOrder[3].OwnerOverride = true
	tr := proposal(d, []models.TradePiece{models.CurrentPiece(4)}, nil)
	assert.NoError(t, ValidatePicksAvailable(tr, d, nil))
}

func TestValidatePicksAvailableRejectsAlreadyTradedPromise(t *testing.T) {
	// Two proposals promise slot 4. The first executes and flips control to
	// DAL; re-validating the second against the fresh snapshot must fail.
	d := twoTeamDraft()
	first := proposal(d, []models.TradePiece{models.CurrentPiece(3)}, []models.TradePiece{models.CurrentPiece(4)})
	second := proposal(d, []models.TradePiece{models.FuturePiece(2027, 1, "DAL")}, []models.TradePiece{models.CurrentPiece(4)})
	require.NoError(t, ValidatePicksAvailable(second, d, nil))

	ex, err := Execute(first, d)
	require.NoError(t, err)
	d.PickOrder = ex.PickOrder
	d.FuturePicks = ex.FuturePicks

	assert.ErrorIs(t, ValidatePicksAvailable(second, d, nil), ErrSlotNotControlled)
}

func TestValidateUserOwnsPicks(t *testing.T) {
	d := twoTeamDraft()

	require.NoError(t, ValidateUserOwnsPicks("u1", []models.TradePiece{
		models.CurrentPiece(3),
		models.FuturePiece(2027, 1, "DAL"),
	}, d))

	// NYG's slot is CPU-controlled, not u1's.
	err := ValidateUserOwnsPicks("u1", []models.TradePiece{models.CurrentPiece(4)}, d)
	assert.ErrorIs(t, err, ErrNotPieceOwner)

	// NYG's future pick likewise.
	err = ValidateUserOwnsPicks("u1", []models.TradePiece{models.FuturePiece(2027, 2, "NYG")}, d)
	assert.ErrorIs(t, err, ErrNotPieceOwner)
}

func TestValidateUserOwnsPicksFollowsOverrides(t *testing.T) {
	d := twoTeamDraft()

	// Slot 4 was traded to DAL earlier; u1 now controls it.
	d.PickOrder[3].TeamOverride = "DAL"
	d.PickOrder[3].OwnerOverride = true
	assert.NoError(t, ValidateUserOwnsPicks("u1", []models.TradePiece{models.CurrentPiece(4)}, d))

	// And slot 3 went the other way.
	d.PickOrder[2].TeamOverride = "NYG"
	d.PickOrder[2].OwnerOverride = true
	assert.ErrorIs(t, ValidateUserOwnsPicks("u1", []models.TradePiece{models.CurrentPiece(3)}, d), ErrNotPieceOwner)
}
