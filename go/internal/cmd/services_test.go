package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/engine/cpu"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func TestCreateDraftBodyAppliesDefaultTuning(t *testing.T) {
	stock := cpu.DefaultTuning()

	var body createDraftBody
	require.NoError(t, json.Unmarshal(
		[]byte(`{"config":{"rounds":2,"year":2026},"team_order":["DAL","NYG"]}`), &body))

	req := body.request(stock)
	assert.Equal(t, stock, req.Config.Tuning)
	assert.Equal(t, 2, req.Config.Rounds)
	assert.Equal(t, []string{"DAL", "NYG"}, req.TeamOrder)
}

func TestCreateDraftBodyKeepsExplicitZeroTuning(t *testing.T) {
	// randomness 0 / needs_weight 0 is a valid fully deterministic CPU and
	// must not be replaced by the stock profile.
	var body createDraftBody
	require.NoError(t, json.Unmarshal(
		[]byte(`{"config":{"rounds":2,"tuning":{"randomness":0,"needs_weight":0}}}`), &body))

	req := body.request(cpu.DefaultTuning())
	assert.Equal(t, models.CPUTuning{}, req.Config.Tuning)
}

func TestCreateDraftBodyKeepsRequestTuning(t *testing.T) {
	var body createDraftBody
	require.NoError(t, json.Unmarshal(
		[]byte(`{"config":{"rounds":1,"tuning":{"randomness":0.25,"needs_weight":0.5}}}`), &body))

	req := body.request(cpu.DefaultTuning())
	assert.Equal(t, 0.25, req.Config.Tuning.Randomness)
	assert.Equal(t, 0.5, req.Config.Tuning.NeedsWeight)
}
