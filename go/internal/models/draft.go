package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus defines the lifecycle status of a draft.
type DraftStatus string

const (
	DraftStatusLobby     DraftStatus = "LOBBY"
	DraftStatusActive    DraftStatus = "ACTIVE"
	DraftStatusPaused    DraftStatus = "PAUSED"
	DraftStatusComplete  DraftStatus = "COMPLETE"
	DraftStatusCancelled DraftStatus = "CANCELLED"
)

// Terminal reports whether the status can never transition again.
func (s DraftStatus) Terminal() bool {
	return s == DraftStatusComplete || s == DraftStatusCancelled
}

// CPUSpeed controls how the host loop batches consecutive CPU turns.
// It never changes what the engine picks, only how fast the host asks.
type CPUSpeed string

const (
	CPUSpeedInstant CPUSpeed = "INSTANT"
	CPUSpeedFast    CPUSpeed = "FAST"
	CPUSpeedNormal  CPUSpeed = "NORMAL"
)

// CPUTuning holds the CPU decision-engine knobs. All weights live in [0,1];
// out-of-range values are clamped by the selector, never rejected.
type CPUTuning struct {
	Randomness        float64              `json:"randomness" yaml:"randomness"`
	NeedsWeight       float64              `json:"needs_weight" yaml:"needs_weight"`
	PositionalWeights map[Position]float64 `json:"positional_weights,omitempty" yaml:"positional_weights,omitempty"`
	// NeedBoosts[i] is the maximum rank multiplier applied when a candidate
	// fills the team's (i+1)-th remaining need and NeedsWeight is 1.
	NeedBoosts []float64 `json:"need_boosts,omitempty" yaml:"need_boosts,omitempty"`
	// SpreadThresholds are the cumulative selection probabilities over the
	// top-scored candidates at Randomness 1. Must be increasing and end at 1.
	SpreadThresholds []float64 `json:"spread_thresholds,omitempty" yaml:"spread_thresholds,omitempty"`
	// Board, when non-empty, re-ranks candidates by this big-board order;
	// players absent from the board fall back to consensus rank.
	Board []uuid.UUID `json:"board,omitempty" yaml:"-"`
}

// DraftConfig holds per-draft configuration fixed at creation time.
type DraftConfig struct {
	Rounds         int       `json:"rounds" yaml:"rounds"`
	Year           int       `json:"year" yaml:"year"`
	CPUSpeed       CPUSpeed  `json:"cpu_speed" yaml:"cpu_speed"`
	SecondsPerPick int       `json:"seconds_per_pick" yaml:"seconds_per_pick"`
	TradesEnabled  bool      `json:"trades_enabled" yaml:"trades_enabled"`
	Tuning         CPUTuning `json:"tuning" yaml:"tuning"`
}

// DraftSlot is one turn in the draft. Overall is unique and immutable;
// only the override fields ever change after setup, and only via trades.
type DraftSlot struct {
	Overall int    `json:"overall"`
	Round   int    `json:"round"`
	Pick    int    `json:"pick"` // 1-based within round
	Team    string `json:"team"` // original owning team abbreviation
	// TeamOverride, when set, is the team currently controlling the slot.
	TeamOverride string `json:"team_override,omitempty"`
	// OwnerOverride marks the slot as detached from its original team's
	// assignment path (set alongside TeamOverride by trade execution).
	OwnerOverride bool `json:"owner_override,omitempty"`
}

// ControllingTeam resolves the team currently on the clock for the slot.
func (s DraftSlot) ControllingTeam() string {
	if s.TeamOverride != "" {
		return s.TeamOverride
	}
	return s.Team
}

// FuturePick is a future-year pick entitlement held in a team's ledger.
type FuturePick struct {
	Year         int    `json:"year"`
	Round        int    `json:"round"`
	OriginalTeam string `json:"original_team"`
}

// Draft is the aggregate root for one mock draft. Hosts treat a Draft value
// as a snapshot: read it, run engine operations against it, persist the
// result as the new authoritative state.
type Draft struct {
	ID     uuid.UUID   `json:"id"`
	Config DraftConfig `json:"config"`
	Status DraftStatus `json:"status"`

	// CurrentPick is the 1-based cursor into PickOrder. While active,
	// len(PickedPlayerIDs) == CurrentPick-1.
	CurrentPick  int `json:"current_pick"`
	CurrentRound int `json:"current_round"`

	// TeamAssignments maps team abbreviation to the controlling user ID.
	// A missing or empty entry means the CPU controls that team.
	TeamAssignments map[string]string `json:"team_assignments"`

	PickedPlayerIDs []uuid.UUID `json:"picked_player_ids"`
	PickOrder       []DraftSlot `json:"pick_order"`

	// FuturePicks maps team abbreviation to the future-pick entitlements it
	// currently owns, for years beyond Config.Year.
	FuturePicks map[string][]FuturePick `json:"future_picks"`

	// Version supports optimistic concurrency in the persistence layer.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotAt returns the slot with the given 1-based overall number, or nil when
// the number is out of range.
func (d *Draft) SlotAt(overall int) *DraftSlot {
	if overall < 1 || overall > len(d.PickOrder) {
		return nil
	}
	return &d.PickOrder[overall-1]
}

// HasPicked reports whether the player has already been selected.
func (d *Draft) HasPicked(playerID uuid.UUID) bool {
	for _, id := range d.PickedPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
