package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func lobbyDraft(t *testing.T) *models.Draft {
	t.Helper()
	cfg := models.DraftConfig{Rounds: 2, Year: 2026, CPUSpeed: models.CPUSpeedInstant}
	return NewDraft(cfg, []string{"DAL", "NYG", "PHI"}, map[string]string{"DAL": "u1"}, time.Now())
}

func TestNewDraftShape(t *testing.T) {
	d := lobbyDraft(t)

	assert.Equal(t, models.DraftStatusLobby, d.Status)
	assert.Equal(t, 1, d.CurrentPick)
	assert.Equal(t, 1, d.CurrentRound)
	require.Len(t, d.PickOrder, 6)

	// Same template order each round, overalls contiguous.
	assert.Equal(t, models.DraftSlot{Overall: 1, Round: 1, Pick: 1, Team: "DAL"}, d.PickOrder[0])
	assert.Equal(t, models.DraftSlot{Overall: 4, Round: 2, Pick: 1, Team: "DAL"}, d.PickOrder[3])
	assert.Equal(t, models.DraftSlot{Overall: 6, Round: 2, Pick: 3, Team: "PHI"}, d.PickOrder[5])

	// Ledgers seed each team's own picks for the following seasons.
	require.NotEmpty(t, d.FuturePicks["NYG"])
	for _, fp := range d.FuturePicks["NYG"] {
		assert.Equal(t, "NYG", fp.OriginalTeam)
		assert.Greater(t, fp.Year, d.Config.Year)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	now := time.Now()
	d := lobbyDraft(t)

	active, err := Start(d, now)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusActive, active.Status)
	assert.Equal(t, models.DraftStatusLobby, d.Status, "input snapshot untouched")

	paused, err := Pause(active, now)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPaused, paused.Status)

	resumed, err := Resume(paused, now)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusActive, resumed.Status)

	cancelled, err := Cancel(resumed, now)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCancelled, cancelled.Status)
}

func TestLifecycleInvalidTransitions(t *testing.T) {
	now := time.Now()
	d := lobbyDraft(t)

	_, err := Pause(d, now)
	assert.ErrorIs(t, err, ErrInvalidTransition, "lobby cannot pause")

	_, err = Resume(d, now)
	assert.ErrorIs(t, err, ErrInvalidTransition, "lobby cannot resume")

	active, err := Start(d, now)
	require.NoError(t, err)
	_, err = Start(active, now)
	assert.ErrorIs(t, err, ErrInvalidTransition, "already started")

	for _, terminal := range []models.DraftStatus{models.DraftStatusComplete, models.DraftStatusCancelled} {
		d := lobbyDraft(t)
		d.Status = terminal
		_, err := Cancel(d, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "terminal states are final")
		_, err = Start(d, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestCopyDraftDoesNotAlias(t *testing.T) {
	d := lobbyDraft(t)
	active, err := Start(d, time.Now())
	require.NoError(t, err)

	active.PickOrder[0].TeamOverride = "NYG"
	active.TeamAssignments["PHI"] = "u9"
	active.FuturePicks["DAL"] = nil

	assert.Empty(t, d.PickOrder[0].TeamOverride)
	assert.NotContains(t, d.TeamAssignments, "PHI")
	assert.NotEmpty(t, d.FuturePicks["DAL"])
}
