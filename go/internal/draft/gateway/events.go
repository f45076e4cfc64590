// Package gateway fans draft events out to websocket clients and serves the
// read-model state endpoint. Presentation only: nothing here mutates draft
// state.
package gateway

import (
	"encoding/json"
	"time"

	"github.com/gridironlabs/mockdraft/go/internal/draft/events"
)

// DraftEvent is the frame sent to websocket clients.
type DraftEvent struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// clientFacing reports whether an event type is worth pushing to clients.
// Everything the app emits today is, but the set is explicit so internal
// event types can be added without leaking to browsers.
func clientFacing(eventType string) bool {
	switch eventType {
	case events.TypePickStarted,
		events.TypePickMade,
		events.TypeDraftStarted,
		events.TypeDraftPaused,
		events.TypeDraftResumed,
		events.TypeDraftCompleted,
		events.TypeDraftCancelled,
		events.TypeTradeAccepted,
		events.TypeTradeExecuted:
		return true
	}
	return false
}
