package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick is the immutable record of one committed selection. Created exactly
// once per slot, never mutated or deleted.
type Pick struct {
	ID      uuid.UUID `json:"id"`
	DraftID uuid.UUID `json:"draft_id"`
	Overall int       `json:"overall"`
	Round   int       `json:"round"`
	Pick    int       `json:"pick"`
	Team    string    `json:"team"` // controlling team at time of pick
	// UserID is empty for CPU and timeout auto-picks.
	UserID   string    `json:"user_id,omitempty"`
	PlayerID uuid.UUID `json:"player_id"`
	MadeAt   time.Time `json:"made_at"`
}
