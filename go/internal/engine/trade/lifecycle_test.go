package trade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func pendingTrade() models.Trade {
	return models.Trade{
		Status:        models.TradeStatusPending,
		ProposerID:    "u1",
		ProposerTeam:  "DAL",
		RecipientID:   "u2",
		RecipientTeam: "NYG",
	}
}

func TestLifecycleTransitions(t *testing.T) {
	now := time.Now()

	accepted, err := Accept(pendingTrade(), "u2", now)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ResolvedAt)
	assert.Equal(t, now, *accepted.ResolvedAt)

	rejected, err := Reject(pendingTrade(), "u2", now)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusRejected, rejected.Status)

	cancelled, err := Cancel(pendingTrade(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCancelled, cancelled.Status)

	expired, err := Expire(pendingTrade(), now)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusExpired, expired.Status)
}

func TestLifecycleActorChecks(t *testing.T) {
	now := time.Now()

	_, err := Accept(pendingTrade(), "u1", now)
	assert.ErrorIs(t, err, ErrNotTradeActor, "proposer cannot accept their own offer")

	_, err = Reject(pendingTrade(), "stranger", now)
	assert.ErrorIs(t, err, ErrNotTradeActor)

	_, err = Cancel(pendingTrade(), "u2", now)
	assert.ErrorIs(t, err, ErrNotTradeActor, "only the proposer withdraws")
}

func TestLifecycleCPURecipientAcceptsWithEmptyActor(t *testing.T) {
	tr := pendingTrade()
	tr.RecipientID = ""

	accepted, err := Accept(tr, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, accepted.Status)
}

func TestLifecycleTerminalStatesAreFinal(t *testing.T) {
	now := time.Now()
	for _, status := range []models.TradeStatus{
		models.TradeStatusAccepted,
		models.TradeStatusRejected,
		models.TradeStatusCancelled,
		models.TradeStatusExpired,
	} {
		tr := pendingTrade()
		tr.Status = status

		_, err := Accept(tr, "u2", now)
		assert.ErrorIs(t, err, ErrTradeNotPending)
		_, err = Expire(tr, now)
		assert.ErrorIs(t, err, ErrTradeNotPending)
	}
}

func TestLifecycleDoesNotMutateInput(t *testing.T) {
	tr := pendingTrade()
	_, err := Accept(tr, "u2", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusPending, tr.Status)
	assert.Nil(t, tr.ResolvedAt)
}
