package tradestore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expiryRecorder struct {
	mu      sync.Mutex
	expired []uuid.UUID
	ch      chan uuid.UUID
}

func newExpiryRecorder() *expiryRecorder {
	return &expiryRecorder{ch: make(chan uuid.UUID, 8)}
}

func (r *expiryRecorder) expire(ctx context.Context, tradeID uuid.UUID) {
	r.mu.Lock()
	r.expired = append(r.expired, tradeID)
	r.mu.Unlock()
	r.ch <- tradeID
}

func TestTrackAndPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, time.Minute, nil)
	draftID, tradeID := uuid.New(), uuid.New()

	require.NoError(t, s.Track(context.Background(), draftID, "u1", tradeID))

	got, ok := s.Pending(draftID, "u1")
	assert.True(t, ok)
	assert.Equal(t, tradeID, got)

	_, ok = s.Pending(draftID, "u2")
	assert.False(t, ok)
}

func TestTrackRejectsSecondProposal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, time.Minute, nil)
	draftID := uuid.New()

	require.NoError(t, s.Track(context.Background(), draftID, "u1", uuid.New()))
	err := s.Track(context.Background(), draftID, "u1", uuid.New())
	assert.ErrorIs(t, err, ErrProposalInFlight)

	// Same user on a different draft is a different key.
	assert.NoError(t, s.Track(context.Background(), uuid.New(), "u1", uuid.New()))
}

func TestReleaseFreesTheSlot(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, time.Minute, nil)
	draftID := uuid.New()

	require.NoError(t, s.Track(context.Background(), draftID, "u1", uuid.New()))
	s.Release(draftID, "u1")

	_, ok := s.Pending(draftID, "u1")
	assert.False(t, ok)
	assert.NoError(t, s.Track(context.Background(), draftID, "u1", uuid.New()))
}

func TestExpiryFiresCallbackAndFreesSlot(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newExpiryRecorder()
	s := New(clock, time.Minute, rec.expire)
	draftID, tradeID := uuid.New(), uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Track(ctx, draftID, "u1", tradeID))

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute + time.Second)

	select {
	case got := <-rec.ch:
		assert.Equal(t, tradeID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback never fired")
	}

	_, ok := s.Pending(draftID, "u1")
	assert.False(t, ok)
}

func TestReleaseBeforeExpiryStopsCallback(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newExpiryRecorder()
	s := New(clock, time.Minute, rec.expire)
	draftID, tradeID := uuid.New(), uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Track(ctx, draftID, "u1", tradeID))
	s.Release(draftID, "u1")

	clock.Advance(2 * time.Minute)

	select {
	case <-rec.ch:
		t.Fatal("released proposal must not expire")
	case <-time.After(100 * time.Millisecond):
	}
}
