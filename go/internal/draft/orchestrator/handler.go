package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft"
	"github.com/gridironlabs/mockdraft/go/internal/draft/events"
)

// DomainEvent is the bus envelope the outbox publisher wraps payloads in.
type DomainEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	DraftID   string          `json:"draftId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// HandleDomainEvent routes incoming domain events. Any event that can change
// which slot is on the clock triggers a reschedule through the draft app.
func (o *Orchestrator) HandleDomainEvent(ctx context.Context, eventType string, draftID uuid.UUID, payload []byte) error {
	log.Debug().
		Str("event_type", eventType).
		Str("draft_id", draftID.String()).
		Msg("handling domain event")

	switch eventType {
	case events.TypeDraftStarted, events.TypeDraftResumed, events.TypePickMade:
		return o.reschedule(ctx, draftID)

	case events.TypeTradeExecuted:
		// A trade can hand the current slot to a different controller, so
		// the armed timer may now be for the wrong party.
		var p events.TradeExecutedPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("failed to unmarshal TradeExecuted payload: %w", err)
		}
		return o.reschedule(ctx, draftID)

	case events.TypeDraftPaused, events.TypeDraftCancelled, events.TypeDraftCompleted:
		// The app already cleared the deadline; just re-read the soonest one.
		o.Wake()
		return nil

	case events.TypePickStarted, events.TypeTradeAccepted:
		// Presentation events; nothing for the orchestrator to do.
		return nil

	default:
		log.Warn().
			Str("event_type", eventType).
			Str("draft_id", draftID.String()).
			Msg("unknown event type, ignoring")
		return nil
	}
}

func (o *Orchestrator) reschedule(ctx context.Context, draftID uuid.UUID) error {
	if err := o.app.SchedulePick(ctx, draftID); err != nil {
		// A version conflict means another actor moved the draft between our
		// read and write; their event will trigger the next reschedule.
		if errors.Is(err, draft.ErrVersionConflict) {
			log.Debug().Str("draft_id", draftID.String()).Msg("reschedule lost version race")
			return nil
		}
		return err
	}
	o.Wake()
	return nil
}

// handleTimeout fires when an armed deadline passes. The app re-checks the
// awaited slot against fresh state, so a stale timer is a no-op there.
func (o *Orchestrator) handleTimeout(ctx context.Context, dp draft.DuePick) error {
	log.Info().
		Str("draft_id", dp.DraftID.String()).
		Int("overall", dp.Overall).
		Msg("pick deadline passed")

	if err := o.app.HandlePickTimeout(ctx, dp.DraftID, dp.Overall); err != nil {
		if errors.Is(err, draft.ErrVersionConflict) {
			log.Debug().Str("draft_id", dp.DraftID.String()).Msg("timeout lost version race")
			return nil
		}
		return err
	}
	return nil
}
