package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the lifecycle status of a trade proposal.
// A trade leaves PENDING exactly once and never transitions again.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
	TradeStatusExpired   TradeStatus = "EXPIRED"
)

// TradePieceKind distinguishes current-draft slots from future entitlements.
type TradePieceKind string

const (
	TradePieceCurrent TradePieceKind = "CURRENT"
	TradePieceFuture  TradePieceKind = "FUTURE"
)

// TradePiece is one tradeable unit: either a current-draft slot referenced
// by overall pick number, or a future pick referenced by year, round and
// original team.
type TradePiece struct {
	Kind    TradePieceKind `json:"kind"`
	Overall int            `json:"overall,omitempty"` // current pieces only
	// Future pieces only.
	Year         int    `json:"year,omitempty"`
	Round        int    `json:"round,omitempty"`
	OriginalTeam string `json:"original_team,omitempty"`
}

// CurrentPiece builds a current-pick trade piece.
func CurrentPiece(overall int) TradePiece {
	return TradePiece{Kind: TradePieceCurrent, Overall: overall}
}

// FuturePiece builds a future-pick trade piece.
func FuturePiece(year, round int, originalTeam string) TradePiece {
	return TradePiece{Kind: TradePieceFuture, Year: year, Round: round, OriginalTeam: originalTeam}
}

// Trade is a transient proposal between two teams. Once accepted it is
// applied into the Draft by the trade engine and retained only as history.
type Trade struct {
	ID      uuid.UUID   `json:"id"`
	DraftID uuid.UUID   `json:"draft_id"`
	Status  TradeStatus `json:"status"`

	ProposerID   string `json:"proposer_id"`
	ProposerTeam string `json:"proposer_team"`
	// RecipientID is empty when the recipient team is CPU-controlled.
	RecipientID   string `json:"recipient_id,omitempty"`
	RecipientTeam string `json:"recipient_team"`

	ProposerGives    []TradePiece `json:"proposer_gives"`
	ProposerReceives []TradePiece `json:"proposer_receives"`

	// IsForceTrade bypasses CPU acceptance in the host gate; execution
	// mechanics are unchanged.
	IsForceTrade bool `json:"is_force_trade,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
