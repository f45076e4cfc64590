// Package needsdata ships the stock draft-order template and preseason team
// need lists. Hosts use these as defaults and may override either from
// configuration.
package needsdata

import "github.com/gridironlabs/mockdraft/go/internal/models"

// DefaultDraftOrder is the 32-team first-round order template. Later rounds
// repeat the order snake-free, matching how the real event runs.
func DefaultDraftOrder() []string {
	return []string{
		"LV", "NYG", "TEN", "NE", "NYJ", "CAR", "NO", "CLE",
		"ARI", "CHI", "MIA", "IND", "DAL", "ATL", "CIN", "SEA",
		"JAX", "TB", "DEN", "PIT", "LAC", "HOU", "SF", "WAS",
		"LAR", "MIN", "GB", "BUF", "KC", "BAL", "PHI", "DET",
	}
}

// DefaultTeamNeeds maps each team to its preseason positional needs, most
// pressing first. The CPU selector boosts ranked players at these positions.
func DefaultTeamNeeds() map[string][]models.Position {
	return map[string][]models.Position{
		"ARI": {models.PositionEDGE, models.PositionWR, models.PositionIOL},
		"ATL": {models.PositionEDGE, models.PositionCB, models.PositionDT},
		"BAL": {models.PositionCB, models.PositionEDGE, models.PositionOT},
		"BUF": {models.PositionWR, models.PositionCB, models.PositionDT},
		"CAR": {models.PositionQB, models.PositionWR, models.PositionEDGE},
		"CHI": {models.PositionOT, models.PositionEDGE, models.PositionRB},
		"CIN": {models.PositionDT, models.PositionLB, models.PositionS},
		"CLE": {models.PositionQB, models.PositionOT, models.PositionWR},
		"DAL": {models.PositionWR, models.PositionDT, models.PositionLB},
		"DEN": {models.PositionRB, models.PositionTE, models.PositionLB},
		"DET": {models.PositionEDGE, models.PositionIOL, models.PositionCB},
		"GB":  {models.PositionCB, models.PositionDT, models.PositionS},
		"HOU": {models.PositionIOL, models.PositionWR, models.PositionS},
		"IND": {models.PositionCB, models.PositionTE, models.PositionEDGE},
		"JAX": {models.PositionIOL, models.PositionWR, models.PositionS},
		"KC":  {models.PositionOT, models.PositionWR, models.PositionEDGE},
		"LAC": {models.PositionWR, models.PositionRB, models.PositionDT},
		"LAR": {models.PositionCB, models.PositionLB, models.PositionIOL},
		"LV":  {models.PositionQB, models.PositionCB, models.PositionOT},
		"MIA": {models.PositionIOL, models.PositionS, models.PositionCB},
		"MIN": {models.PositionCB, models.PositionS, models.PositionIOL},
		"NE":  {models.PositionWR, models.PositionOT, models.PositionEDGE},
		"NO":  {models.PositionQB, models.PositionWR, models.PositionOT},
		"NYG": {models.PositionQB, models.PositionOT, models.PositionCB},
		"NYJ": {models.PositionOT, models.PositionS, models.PositionWR},
		"PHI": {models.PositionEDGE, models.PositionS, models.PositionLB},
		"PIT": {models.PositionQB, models.PositionCB, models.PositionDT},
		"SEA": {models.PositionIOL, models.PositionEDGE, models.PositionWR},
		"SF":  {models.PositionOT, models.PositionCB, models.PositionEDGE},
		"TB":  {models.PositionEDGE, models.PositionCB, models.PositionIOL},
		"TEN": {models.PositionEDGE, models.PositionOT, models.PositionCB},
		"WAS": {models.PositionOT, models.PositionEDGE, models.PositionCB},
	}
}
