// Package tradestore tracks which trade proposal each user currently has in
// flight per draft. It is a session concern of the serving layer: the engine
// and the trades table stay free of "who is mid-proposal" bookkeeping, and a
// restarted server simply starts with an empty store.
package tradestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrProposalInFlight is returned when the user already has a pending
// proposal on the draft; they must resolve or cancel it first.
var ErrProposalInFlight = errors.New("user already has a pending trade proposal")

type key struct {
	draftID uuid.UUID
	userID  string
}

type entry struct {
	tradeID uuid.UUID
	timer   clockwork.Timer
}

// ExpireFunc resolves a proposal whose window ran out.
type ExpireFunc func(ctx context.Context, tradeID uuid.UUID)

// Store is a keyed in-memory pending-proposal registry with per-entry expiry.
type Store struct {
	clock  clockwork.Clock
	ttl    time.Duration
	expire ExpireFunc

	mu      sync.Mutex
	entries map[key]*entry
}

func New(clock clockwork.Clock, ttl time.Duration, expire ExpireFunc) *Store {
	return &Store{
		clock:   clock,
		ttl:     ttl,
		expire:  expire,
		entries: make(map[key]*entry),
	}
}

// Track registers the user's open proposal and arms its expiry timer. One
// proposal per user per draft.
func (s *Store) Track(ctx context.Context, draftID uuid.UUID, userID string, tradeID uuid.UUID) error {
	k := key{draftID: draftID, userID: userID}

	s.mu.Lock()
	if _, exists := s.entries[k]; exists {
		s.mu.Unlock()
		return ErrProposalInFlight
	}
	timer := s.clock.NewTimer(s.ttl)
	s.entries[k] = &entry{tradeID: tradeID, timer: timer}
	s.mu.Unlock()

	go s.await(ctx, k, tradeID, timer)
	return nil
}

// Pending returns the user's open proposal id on the draft, if any.
func (s *Store) Pending(draftID uuid.UUID, userID string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key{draftID: draftID, userID: userID}]; ok {
		return e.tradeID, true
	}
	return uuid.Nil, false
}

// Release drops the user's tracked proposal after it resolved. Safe to call
// for proposals the store never saw.
func (s *Store) Release(draftID uuid.UUID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{draftID: draftID, userID: userID}
	if e, ok := s.entries[k]; ok {
		e.timer.Stop()
		delete(s.entries, k)
	}
}

func (s *Store) await(ctx context.Context, k key, tradeID uuid.UUID, timer clockwork.Timer) {
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.Chan():
	}

	s.mu.Lock()
	e, ok := s.entries[k]
	// The entry may have been released and the slot reused for a newer
	// proposal before this timer drained.
	if !ok || e.tradeID != tradeID {
		s.mu.Unlock()
		return
	}
	delete(s.entries, k)
	s.mu.Unlock()

	log.Info().
		Str("trade_id", tradeID.String()).
		Str("draft_id", k.draftID.String()).
		Str("user_id", k.userID).
		Msg("trade proposal window expired")
	if s.expire != nil {
		s.expire(ctx, tradeID)
	}
}
