package trade

import (
	"errors"
	"time"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

var (
	// ErrTradeNotPending is returned when a lifecycle transition is applied
	// to a trade that already left the pending state.
	ErrTradeNotPending = errors.New("trade is not pending")
	// ErrNotTradeActor is returned when the acting user is not the party
	// allowed to perform the transition.
	ErrNotTradeActor = errors.New("user is not a party to this trade")
)

// Accept transitions a pending trade to accepted. actorID must be the
// recipient; for a CPU recipient the host passes the empty string. Accepting
// does not execute the trade; the caller follows up with Execute.
func Accept(t models.Trade, actorID string, now time.Time) (models.Trade, error) {
	return resolve(t, models.TradeStatusAccepted, t.RecipientID, actorID, now)
}

// Reject transitions a pending trade to rejected. actorID must be the
// recipient.
func Reject(t models.Trade, actorID string, now time.Time) (models.Trade, error) {
	return resolve(t, models.TradeStatusRejected, t.RecipientID, actorID, now)
}

// Cancel transitions a pending trade to cancelled. Only the proposer may
// withdraw a proposal.
func Cancel(t models.Trade, actorID string, now time.Time) (models.Trade, error) {
	return resolve(t, models.TradeStatusCancelled, t.ProposerID, actorID, now)
}

// Expire transitions a pending trade to expired. The timeout itself is a
// host concern; this is only the terminal-state bookkeeping.
func Expire(t models.Trade, now time.Time) (models.Trade, error) {
	if t.Status != models.TradeStatusPending {
		return t, ErrTradeNotPending
	}
	t.Status = models.TradeStatusExpired
	t.ResolvedAt = &now
	return t, nil
}

func resolve(t models.Trade, to models.TradeStatus, allowedActor, actorID string, now time.Time) (models.Trade, error) {
	if t.Status != models.TradeStatusPending {
		return t, ErrTradeNotPending
	}
	if actorID != allowedActor {
		return t, ErrNotTradeActor
	}
	t.Status = to
	t.ResolvedAt = &now
	return t, nil
}
