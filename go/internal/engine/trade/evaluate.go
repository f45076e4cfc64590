package trade

import (
	"github.com/gridironlabs/mockdraft/go/internal/engine/value"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Verdict is the CPU's answer to a proposal.
type Verdict string

const (
	VerdictAccept  Verdict = "ACCEPT"
	VerdictCounter Verdict = "COUNTER"
	VerdictReject  Verdict = "REJECT"
)

// EvalProfile tunes how lopsided a trade the CPU tolerates.
type EvalProfile struct {
	// MinAcceptFraction is the floor on recipientValue/proposerValue below
	// which the CPU rejects outright; between the floor and 1.0 it counters.
	MinAcceptFraction float64 `json:"min_accept_fraction" yaml:"min_accept_fraction"`
}

// DefaultEvalProfile returns the stock trade-acceptance thresholds.
func DefaultEvalProfile() EvalProfile {
	return EvalProfile{MinAcceptFraction: 0.85}
}

// Evaluation reports both sides' chart value and the CPU verdict.
// ProposerValue is the value flowing to the proposer (what the CPU gives up);
// RecipientValue is the value flowing to the CPU recipient.
type Evaluation struct {
	ProposerValue  float64 `json:"proposer_value"`
	RecipientValue float64 `json:"recipient_value"`
	Verdict        Verdict `json:"verdict"`
}

// EvaluateCPUTrade values both sides of the proposal on the pick-value chart
// and maps the ratio onto a verdict. The CPU accepts whenever it does not
// lose value, rejects below the profile's floor, and counters in between.
// The verdict is monotone in the CPU's value deficit: a worse ratio never
// produces a friendlier verdict.
func EvaluateCPUTrade(t *models.Trade, draft *models.Draft, profile EvalProfile) Evaluation {
	eval := Evaluation{
		ProposerValue:  sideValue(t.ProposerReceives, draft.Config.Year),
		RecipientValue: sideValue(t.ProposerGives, draft.Config.Year),
	}

	floor := profile.MinAcceptFraction
	if floor < 0 {
		floor = 0
	}
	if floor > 1 {
		floor = 1
	}

	switch {
	case eval.RecipientValue >= eval.ProposerValue:
		eval.Verdict = VerdictAccept
	case eval.RecipientValue >= floor*eval.ProposerValue:
		eval.Verdict = VerdictCounter
	default:
		eval.Verdict = VerdictReject
	}
	return eval
}

// sideValue totals one side's pieces on the chart. Future pieces are valued
// at their round's midpoint and discounted per year out from draftYear.
func sideValue(pieces []models.TradePiece, draftYear int) float64 {
	total := 0.0
	for _, piece := range pieces {
		switch piece.Kind {
		case models.TradePieceCurrent:
			total += value.PickValue(piece.Overall)
		case models.TradePieceFuture:
			total += value.FuturePickValue(piece.Round, piece.Year-draftYear)
		}
	}
	return total
}
