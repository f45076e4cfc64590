package models

import (
	"github.com/google/uuid"
)

// Position is an NFL position group as used on draft boards and need lists.
type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionOT   Position = "OT"
	PositionIOL  Position = "IOL"
	PositionEDGE Position = "EDGE"
	PositionDT   Position = "DT"
	PositionLB   Position = "LB"
	PositionCB   Position = "CB"
	PositionS    Position = "S"
	PositionK    Position = "K"
	PositionP    Position = "P"
)

// UnrankedRank is the consensus-rank sentinel for players absent from the
// consensus board. It sorts after every ranked player.
const UnrankedRank = 9999

// Player represents one draft-eligible player in a draft class.
type Player struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Position      Position  `json:"position"`
	College       string    `json:"college"`
	ConsensusRank int       `json:"consensus_rank"` // lower = better; UnrankedRank when unranked
	Year          int       `json:"year"`           // draft class year
}

// Ranked reports whether the player carries a real consensus rank.
func (p Player) Ranked() bool {
	return p.ConsensusRank > 0 && p.ConsensusRank < UnrankedRank
}
