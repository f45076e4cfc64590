// Package trade implements the trade engine: legality validation, CPU
// evaluation of a proposal's two sides, execution of accepted trades against
// the pick order and future-pick ledgers, and the pure proposal lifecycle
// transitions. Like the rest of the engine it operates on snapshots and
// returns new values; hosts serialize execution with pick commits per draft.
package trade

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

var (
	// ErrPickAlreadyMade is returned for a current piece at or before the
	// draft's cursor.
	ErrPickAlreadyMade = errors.New("referenced pick has already been made")
	// ErrSlotNotFound is returned for a current piece whose overall number
	// is outside the pick order.
	ErrSlotNotFound = errors.New("referenced pick does not exist")
	// ErrDuplicatePiece is returned when the same piece appears twice in
	// one proposal.
	ErrDuplicatePiece = errors.New("piece referenced more than once in trade")
	// ErrFuturePickNotOwned is returned when a future piece is absent from
	// the giving team's ledger.
	ErrFuturePickNotOwned = errors.New("future pick not in team ledger")
	// ErrFuturePickPromised is returned when a future piece is already
	// committed in another pending trade for the same draft.
	ErrFuturePickPromised = errors.New("future pick promised in another pending trade")
	// ErrNotPieceOwner is returned when a proposer offers a piece their
	// teams do not control.
	ErrNotPieceOwner = errors.New("user does not control offered piece")
	// ErrSlotNotControlled is returned when a current piece is not
	// controlled by the team giving it.
	ErrSlotNotControlled = errors.New("slot not controlled by giving team")
)

// ValidatePicksAvailable checks that every piece in the trade is still
// deliverable against the draft snapshot: current picks unmade, inside the
// pick order and controlled by the side giving them, future picks present in
// the giving team's ledger and not promised in any other pending trade. Hosts
// run this at proposal time and MUST run it again at acceptance, since other
// trades may have landed in between.
func ValidatePicksAvailable(t *models.Trade, draft *models.Draft, otherPending []models.Trade) error {
	seen := make(map[models.TradePiece]bool)

	check := func(givingTeam string, pieces []models.TradePiece) error {
		for _, piece := range pieces {
			if seen[piece] {
				return fmt.Errorf("%w: %s", ErrDuplicatePiece, describePiece(piece))
			}
			seen[piece] = true

			switch piece.Kind {
			case models.TradePieceCurrent:
				slot := draft.SlotAt(piece.Overall)
				if slot == nil {
					return fmt.Errorf("%w: overall %d", ErrSlotNotFound, piece.Overall)
				}
				if piece.Overall < draft.CurrentPick {
					return fmt.Errorf("%w: overall %d", ErrPickAlreadyMade, piece.Overall)
				}
				if slot.ControllingTeam() != givingTeam {
					return fmt.Errorf("%w: overall %d belongs to %s, not %s",
						ErrSlotNotControlled, piece.Overall, slot.ControllingTeam(), givingTeam)
				}
			case models.TradePieceFuture:
				if !ledgerContains(draft.FuturePicks[givingTeam], piece) {
					return fmt.Errorf("%w: %s (team %s)", ErrFuturePickNotOwned, describePiece(piece), givingTeam)
				}
				if promisedElsewhere(piece, t.ID, otherPending) {
					return fmt.Errorf("%w: %s", ErrFuturePickPromised, describePiece(piece))
				}
			default:
				return fmt.Errorf("unknown trade piece kind %q", piece.Kind)
			}
		}
		return nil
	}

	if err := check(t.ProposerTeam, t.ProposerGives); err != nil {
		return err
	}
	return check(t.RecipientTeam, t.ProposerReceives)
}

// ValidateUserOwnsPicks checks that every offered piece is controlled by a
// team assigned to userID: current picks through the slot's controlling team,
// future picks through the ledger of any of the user's teams.
func ValidateUserOwnsPicks(userID string, pieces []models.TradePiece, draft *models.Draft) error {
	for _, piece := range pieces {
		switch piece.Kind {
		case models.TradePieceCurrent:
			slot := draft.SlotAt(piece.Overall)
			if slot == nil {
				return fmt.Errorf("%w: overall %d", ErrSlotNotFound, piece.Overall)
			}
			if draft.TeamAssignments[slot.ControllingTeam()] != userID {
				return fmt.Errorf("%w: overall %d", ErrNotPieceOwner, piece.Overall)
			}
		case models.TradePieceFuture:
			if !userOwnsFuturePick(userID, piece, draft) {
				return fmt.Errorf("%w: %s", ErrNotPieceOwner, describePiece(piece))
			}
		default:
			return fmt.Errorf("unknown trade piece kind %q", piece.Kind)
		}
	}
	return nil
}

func userOwnsFuturePick(userID string, piece models.TradePiece, draft *models.Draft) bool {
	for team, assigned := range draft.TeamAssignments {
		if assigned != userID || assigned == "" {
			continue
		}
		if ledgerContains(draft.FuturePicks[team], piece) {
			return true
		}
	}
	return false
}

func ledgerContains(ledger []models.FuturePick, piece models.TradePiece) bool {
	for _, fp := range ledger {
		if fp.Year == piece.Year && fp.Round == piece.Round && fp.OriginalTeam == piece.OriginalTeam {
			return true
		}
	}
	return false
}

// promisedElsewhere reports whether piece appears in any pending trade other
// than tradeID itself.
func promisedElsewhere(piece models.TradePiece, tradeID uuid.UUID, pending []models.Trade) bool {
	for _, other := range pending {
		if other.ID == tradeID || other.Status != models.TradeStatusPending {
			continue
		}
		for _, p := range other.ProposerGives {
			if p == piece {
				return true
			}
		}
		for _, p := range other.ProposerReceives {
			if p == piece {
				return true
			}
		}
	}
	return false
}

func describePiece(p models.TradePiece) string {
	if p.Kind == models.TradePieceCurrent {
		return fmt.Sprintf("current pick %d", p.Overall)
	}
	return fmt.Sprintf("%d round %d (%s)", p.Year, p.Round, p.OriginalTeam)
}
