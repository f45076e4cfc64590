package events

import (
	"time"
)

// Event payload types shared by the draft app, orchestrator and gateway.

// Event type names as stored in the outbox and routed on the bus.
const (
	TypePickStarted    = "PickStarted"
	TypePickMade       = "PickMade"
	TypeDraftStarted   = "DraftStarted"
	TypeDraftPaused    = "DraftPaused"
	TypeDraftResumed   = "DraftResumed"
	TypeDraftCompleted = "DraftCompleted"
	TypeDraftCancelled = "DraftCancelled"
	TypeTradeAccepted  = "TradeAccepted"
	TypeTradeExecuted  = "TradeExecuted"
)

// PickStartedPayload announces a slot going on the clock.
type PickStartedPayload struct {
	Overall        int       `json:"overall"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	Team           string    `json:"team"`
	UserID         string    `json:"user_id,omitempty"` // empty for CPU slots
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at,omitempty"`
	SecondsPerPick int       `json:"seconds_per_pick"`
}

// PickMadePayload announces a committed selection.
type PickMadePayload struct {
	PickID     string    `json:"pick_id"`
	Overall    int       `json:"overall"`
	Round      int       `json:"round"`
	Pick       int       `json:"pick"`
	Team       string    `json:"team"`
	UserID     string    `json:"user_id,omitempty"` // empty for CPU picks
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name,omitempty"`
	MadeAt     time.Time `json:"made_at"`
}

// DraftStartedPayload announces a draft leaving the lobby.
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	Year        int       `json:"year"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
	StartedAt   time.Time `json:"started_at"`
}

// DraftPausedPayload announces a pause; timers stop until resume.
type DraftPausedPayload struct {
	DraftID  string    `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason,omitempty"`
}

// DraftResumedPayload announces a resume.
type DraftResumedPayload struct {
	DraftID   string    `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// DraftCompletedPayload announces the final pick landing.
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	TotalPicks  int       `json:"total_picks"`
	CompletedAt time.Time `json:"completed_at"`
}

// DraftCancelledPayload announces a terminal cancellation.
type DraftCancelledPayload struct {
	DraftID     string    `json:"draft_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// TradeAcceptedPayload announces a proposal reaching accepted status,
// before its execution lands on the pick order.
type TradeAcceptedPayload struct {
	TradeID       string    `json:"trade_id"`
	ProposerTeam  string    `json:"proposer_team"`
	RecipientTeam string    `json:"recipient_team"`
	AcceptedAt    time.Time `json:"accepted_at"`
}

// TradeExecutedPayload announces the ownership rewrite for an accepted trade.
type TradeExecutedPayload struct {
	TradeID       string    `json:"trade_id"`
	ProposerTeam  string    `json:"proposer_team"`
	RecipientTeam string    `json:"recipient_team"`
	MovedOveralls []int     `json:"moved_overalls,omitempty"`
	MovedFutures  int       `json:"moved_futures"`
	ExecutedAt    time.Time `json:"executed_at"`
}
