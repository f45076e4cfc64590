package trade

import (
	"fmt"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Execution is the post-trade ownership state: a rewritten pick order and
// future-pick ledgers. The caller persists these back onto the draft.
type Execution struct {
	PickOrder   []models.DraftSlot
	FuturePicks map[string][]models.FuturePick
}

// Execute applies an accepted trade's piece movements to copies of the
// draft's pick order and future-pick ledgers. Current pieces get their slot's
// TeamOverride set to the new controlling team; future pieces move between
// the two teams' ledgers. Overrides are direct sets and ledger moves check
// for presence first, so applying the same trade to an already-applied state
// converges instead of double-moving.
//
// Execute never mutates the draft and is unaware of trade status; the caller
// gates it on acceptance and serializes it with pick commits.
func Execute(t *models.Trade, draft *models.Draft) (Execution, error) {
	ex := Execution{
		PickOrder:   make([]models.DraftSlot, len(draft.PickOrder)),
		FuturePicks: make(map[string][]models.FuturePick, len(draft.FuturePicks)),
	}
	copy(ex.PickOrder, draft.PickOrder)
	for team, ledger := range draft.FuturePicks {
		ex.FuturePicks[team] = append([]models.FuturePick(nil), ledger...)
	}

	if err := applyPieces(&ex, t.ProposerGives, t.ProposerTeam, t.RecipientTeam); err != nil {
		return Execution{}, err
	}
	if err := applyPieces(&ex, t.ProposerReceives, t.RecipientTeam, t.ProposerTeam); err != nil {
		return Execution{}, err
	}
	return ex, nil
}

func applyPieces(ex *Execution, pieces []models.TradePiece, fromTeam, toTeam string) error {
	for _, piece := range pieces {
		switch piece.Kind {
		case models.TradePieceCurrent:
			idx := piece.Overall - 1
			if idx < 0 || idx >= len(ex.PickOrder) {
				return fmt.Errorf("%w: overall %d", ErrSlotNotFound, piece.Overall)
			}
			ex.PickOrder[idx].TeamOverride = toTeam
			ex.PickOrder[idx].OwnerOverride = true
		case models.TradePieceFuture:
			moveFuturePick(ex.FuturePicks, piece, fromTeam, toTeam)
		default:
			return fmt.Errorf("unknown trade piece kind %q", piece.Kind)
		}
	}
	return nil
}

// moveFuturePick transfers one entitlement between ledgers. Removal takes the
// first match only; the add is skipped when the receiver already holds the
// entitlement, which is what makes re-application converge.
func moveFuturePick(ledgers map[string][]models.FuturePick, piece models.TradePiece, fromTeam, toTeam string) {
	fp := models.FuturePick{Year: piece.Year, Round: piece.Round, OriginalTeam: piece.OriginalTeam}

	from := ledgers[fromTeam]
	for i, held := range from {
		if held == fp {
			ledgers[fromTeam] = append(from[:i:i], from[i+1:]...)
			break
		}
	}

	for _, held := range ledgers[toTeam] {
		if held == fp {
			return
		}
	}
	ledgers[toTeam] = append(ledgers[toTeam], fp)
}
