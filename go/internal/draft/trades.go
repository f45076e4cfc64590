package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft/events"
	"github.com/gridironlabs/mockdraft/go/internal/draft/outbox"
	"github.com/gridironlabs/mockdraft/go/internal/engine/sim"
	"github.com/gridironlabs/mockdraft/go/internal/engine/trade"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// ProposeTrade validates and records a trade proposal. Proposals to a
// CPU-controlled team are evaluated immediately: an accepting verdict
// executes the trade in the same transaction, anything else records the
// proposal as rejected with the evaluation attached. Proposals to a human
// stay pending until RespondToTrade.
func (a *App) ProposeTrade(ctx context.Context, req ProposeTradeRequest) (*models.Trade, *trade.Evaluation, error) {
	d, err := a.repo.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, nil, err
	}
	if !d.Config.TradesEnabled {
		return nil, nil, ErrTradesDisabled
	}
	if d.Status != models.DraftStatusActive {
		return nil, nil, fmt.Errorf("%w: %s", sim.ErrDraftNotActive, d.Status)
	}

	t := &models.Trade{
		ID:               uuid.New(),
		DraftID:          req.DraftID,
		Status:           models.TradeStatusPending,
		ProposerID:       req.ProposerID,
		ProposerTeam:     req.ProposerTeam,
		RecipientID:      req.RecipientID,
		RecipientTeam:    req.RecipientTeam,
		ProposerGives:    req.ProposerGives,
		ProposerReceives: req.ProposerReceives,
		IsForceTrade:     req.IsForceTrade,
		CreatedAt:        a.clock.Now(),
	}

	pending, err := a.repo.ListPendingTrades(ctx, req.DraftID)
	if err != nil {
		return nil, nil, err
	}
	if err := trade.ValidateUserOwnsPicks(req.ProposerID, req.ProposerGives, d); err != nil {
		return nil, nil, err
	}
	if err := trade.ValidatePicksAvailable(t, d, pending); err != nil {
		return nil, nil, err
	}

	// Human recipient: park the proposal and wait for their response.
	if req.RecipientID != "" {
		if err := a.repo.InsertTrade(ctx, t); err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("trade_id", t.ID.String()).
			Str("proposer", req.ProposerTeam).
			Str("recipient", req.RecipientTeam).
			Msg("trade proposed")
		return t, nil, nil
	}

	// CPU recipient: force trades skip the evaluation gate, nothing else
	// about execution changes.
	if req.IsForceTrade {
		executed, err := a.acceptAndExecute(ctx, d, t, "", nil)
		if err != nil {
			return nil, nil, err
		}
		return executed, nil, nil
	}

	eval := trade.EvaluateCPUTrade(t, d, a.eval)
	if eval.Verdict == trade.VerdictAccept {
		executed, err := a.acceptAndExecute(ctx, d, t, "", &eval)
		if err != nil {
			return nil, nil, err
		}
		return executed, &eval, nil
	}

	// Counter and reject both land as a rejected proposal; the evaluation
	// tells the proposer how far off the offer was.
	rejected, err := trade.Reject(*t, "", a.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	err = a.inTxn(ctx, func(repo *Repository, _ *outbox.App) error {
		if err := repo.InsertTrade(ctx, t); err != nil {
			return err
		}
		return repo.ResolveTrade(ctx, t.ID, rejected.Status, *rejected.ResolvedAt, eval)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("trade_id", t.ID.String()).
		Str("verdict", string(eval.Verdict)).
		Float64("proposer_value", eval.ProposerValue).
		Float64("recipient_value", eval.RecipientValue).
		Msg("cpu declined trade")
	return &rejected, &eval, nil
}

// RespondToTrade resolves a pending proposal to a human recipient. Accepting
// re-validates the pieces against fresh draft state before executing.
func (a *App) RespondToTrade(ctx context.Context, tradeID uuid.UUID, actorID string, accept bool) (*models.Trade, error) {
	t, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if !accept {
		rejected, err := trade.Reject(*t, actorID, a.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := a.repo.ResolveTrade(ctx, tradeID, rejected.Status, *rejected.ResolvedAt, nil); err != nil {
			return nil, err
		}
		log.Info().Str("trade_id", tradeID.String()).Msg("trade rejected")
		return &rejected, nil
	}

	d, err := a.repo.GetDraft(ctx, t.DraftID)
	if err != nil {
		return nil, err
	}
	pending, err := a.repo.ListPendingTrades(ctx, t.DraftID)
	if err != nil {
		return nil, err
	}
	if err := trade.ValidatePicksAvailable(t, d, pending); err != nil {
		return nil, err
	}

	return a.acceptAndExecute(ctx, d, t, actorID, nil)
}

// CancelTrade withdraws a pending proposal; only the proposer may do it.
func (a *App) CancelTrade(ctx context.Context, tradeID uuid.UUID, actorID string) (*models.Trade, error) {
	t, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	cancelled, err := trade.Cancel(*t, actorID, a.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := a.repo.ResolveTrade(ctx, tradeID, cancelled.Status, *cancelled.ResolvedAt, nil); err != nil {
		return nil, err
	}
	log.Info().Str("trade_id", tradeID.String()).Msg("trade cancelled")
	return &cancelled, nil
}

// ExpireTrade times out a pending proposal. Invoked by the proposal store's
// expiry callback; the draft itself is untouched.
func (a *App) ExpireTrade(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error) {
	t, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	expired, err := trade.Expire(*t, a.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := a.repo.ResolveTrade(ctx, tradeID, expired.Status, *expired.ResolvedAt, nil); err != nil {
		return nil, err
	}
	log.Info().Str("trade_id", tradeID.String()).Msg("trade expired")
	return &expired, nil
}

// GetTrade retrieves one trade.
func (a *App) GetTrade(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error) {
	return a.repo.GetTrade(ctx, tradeID)
}

// ListPendingTrades lists a draft's open proposals.
func (a *App) ListPendingTrades(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error) {
	return a.repo.ListPendingTrades(ctx, draftID)
}

// acceptAndExecute flips a validated proposal to accepted, rewrites slot
// control and the future-pick ledgers, and persists everything atomically.
// The trade row may or may not exist yet; insertIfMissing handles both the
// propose-to-CPU path and the respond path.
func (a *App) acceptAndExecute(ctx context.Context, d *models.Draft, t *models.Trade, actorID string, eval *trade.Evaluation) (*models.Trade, error) {
	now := a.clock.Now()
	accepted, err := trade.Accept(*t, actorID, now)
	if err != nil {
		return nil, err
	}

	ex, err := trade.Execute(&accepted, d)
	if err != nil {
		return nil, err
	}

	next := *d
	next.PickOrder = ex.PickOrder
	next.FuturePicks = ex.FuturePicks
	next.UpdatedAt = now

	var movedOveralls []int
	for _, piece := range append(append([]models.TradePiece{}, accepted.ProposerGives...), accepted.ProposerReceives...) {
		if piece.Kind == models.TradePieceCurrent {
			movedOveralls = append(movedOveralls, piece.Overall)
		}
	}
	movedFutures := len(accepted.ProposerGives) + len(accepted.ProposerReceives) - len(movedOveralls)

	var evalRecord any
	if eval != nil {
		evalRecord = *eval
	}

	err = a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, &next, d.Version); err != nil {
			return err
		}
		if t.Status == models.TradeStatusPending && t.ResolvedAt == nil {
			if exists, err := repo.tradeExists(ctx, t.ID); err != nil {
				return err
			} else if !exists {
				if err := repo.InsertTrade(ctx, t); err != nil {
					return err
				}
			}
		}
		if err := repo.ResolveTrade(ctx, t.ID, accepted.Status, *accepted.ResolvedAt, evalRecord); err != nil {
			return err
		}
		if err := ob.Insert(ctx, d.ID, events.TypeTradeAccepted, events.TradeAcceptedPayload{
			TradeID:       t.ID.String(),
			ProposerTeam:  t.ProposerTeam,
			RecipientTeam: t.RecipientTeam,
			AcceptedAt:    now,
		}); err != nil {
			return err
		}
		return ob.Insert(ctx, d.ID, events.TypeTradeExecuted, events.TradeExecutedPayload{
			TradeID:       t.ID.String(),
			ProposerTeam:  t.ProposerTeam,
			RecipientTeam: t.RecipientTeam,
			MovedOveralls: movedOveralls,
			MovedFutures:  movedFutures,
			ExecutedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("trade_id", t.ID.String()).
		Str("proposer", t.ProposerTeam).
		Str("recipient", t.RecipientTeam).
		Ints("moved_overalls", movedOveralls).
		Msg("trade executed")
	return &accepted, nil
}
