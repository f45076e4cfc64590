package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/engine/sim"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func TestTimerIsStale(t *testing.T) {
	cfg := models.DraftConfig{Rounds: 2, Year: 2026}
	d := sim.NewDraft(cfg, []string{"DAL", "NYG"}, nil, time.Now())
	active, err := sim.Start(d, time.Now())
	require.NoError(t, err)

	assert.False(t, TimerIsStale(active, 1), "timer armed for the current slot")
	assert.True(t, TimerIsStale(active, 2), "timer armed for a slot not yet on the clock")

	// A committed pick moves the cursor and strands the old timer.
	active.CurrentPick = 2
	assert.True(t, TimerIsStale(active, 1))
	assert.False(t, TimerIsStale(active, 2))
}
