package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/engine/cpu"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func TestAdvanceOneTurnNoOpWhenNotActive(t *testing.T) {
	d := lobbyDraft(t)
	players := catalog(10)

	res, err := AdvanceOneTurn(d, players, nil, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, res.Outcome)
	assert.Same(t, d, res.Draft)
	assert.Nil(t, res.Pick)
}

func TestAdvanceOneTurnNoOpOnWalkedOffCursor(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	d.CurrentPick = 3

	res, err := AdvanceOneTurn(d, catalog(4), nil, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, res.Outcome)
}

func TestAdvanceOneTurnAwaitsHuman(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"DAL": "u1"})
	players := catalog(4)

	res, err := AdvanceOneTurn(d, players, nil, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAwaitingHuman, res.Outcome)
	assert.Equal(t, 1, res.Draft.CurrentPick, "nothing committed")
}

func TestAdvanceOneTurnCommitsOneCPUPick(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG", "PHI"}, 1, nil)
	players := catalog(5)

	res, err := AdvanceOneTurn(d, players, nil, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCPUPicked, res.Outcome)
	require.NotNil(t, res.Pick)
	assert.Equal(t, 1, res.Pick.Overall)
	assert.Empty(t, res.Pick.UserID, "CPU picks carry no user")
	assert.Equal(t, 2, res.Draft.CurrentPick, "exactly one turn per call")
}

func TestAdvanceOneTurnEmptyPoolIsFatal(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)

	_, err := AdvanceOneTurn(d, nil, nil, rand.New(rand.NewSource(1)), time.Now())
	assert.ErrorIs(t, err, cpu.ErrNoPlayersAvailable)
}

// Scenario: one CPU slot ahead of one human slot. A single advance makes the
// CPU pick, then reports the human turn with the draft still active.
func TestAdvanceUntilHumanStopsAtHumanSlot(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"NYG": "u1"})
	players := catalog(3)

	next, picks, outcome, err := AdvanceUntilHuman(d, players, nil, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)

	assert.Equal(t, OutcomeAwaitingHuman, outcome)
	assert.Equal(t, models.DraftStatusActive, next.Status)
	assert.Equal(t, 2, next.CurrentPick)
	require.Len(t, picks, 1)
	assert.Len(t, next.PickedPlayerIDs, 1)

	// The human commits the top remaining player and the draft completes.
	remaining := AvailablePlayers(players, next)
	require.Len(t, remaining, 2)

	final, humanPick, err := CommitPick(next, "u1", remaining[0].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusComplete, final.Status)
	assert.Equal(t, "u1", humanPick.UserID)
	assert.Len(t, final.PickedPlayerIDs, 2)
	assert.NotEqual(t, final.PickedPlayerIDs[0], final.PickedPlayerIDs[1])
}

func TestAdvanceUntilHumanDrainsAllCPUDraft(t *testing.T) {
	teams := []string{"DAL", "NYG", "PHI", "WAS"}
	const rounds = 3
	d := activeDraft(t, teams, rounds, nil)
	n := len(teams) * rounds
	players := catalog(n + 5)

	final, picks, outcome, err := AdvanceUntilHuman(d, players, nil, rand.New(rand.NewSource(9)), time.Now())
	require.NoError(t, err)

	assert.Equal(t, OutcomeComplete, outcome)
	assert.Equal(t, models.DraftStatusComplete, final.Status)
	assert.Equal(t, n+1, final.CurrentPick)
	require.Len(t, picks, n)

	unique := make(map[uuid.UUID]bool, n)
	for _, id := range final.PickedPlayerIDs {
		unique[id] = true
	}
	assert.Len(t, unique, n, "every picked player id is unique")

	for i, pick := range picks {
		assert.Equal(t, i+1, pick.Overall, "picks recorded in order")
	}
}

func TestAdvanceCPUHonorsNeeds(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	d.Config.Tuning = models.CPUTuning{Randomness: 0, NeedsWeight: 1}

	qb := models.Player{ID: uuid.New(), Position: models.PositionQB, ConsensusRank: 5}
	wr := models.Player{ID: uuid.New(), Position: models.PositionWR, ConsensusRank: 6}
	needsByTeam := map[string][]models.Position{
		"DAL": {models.PositionWR, models.PositionOT},
	}

	res, err := AdvanceOneTurn(d, []models.Player{qb, wr}, needsByTeam, rand.New(rand.NewSource(1)), time.Now())
	require.NoError(t, err)
	require.NotNil(t, res.Pick)
	assert.Equal(t, wr.ID, res.Pick.PlayerID, "need pulls the WR ahead of the QB")
}

func TestAvailablePlayersFiltersPicked(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	players := catalog(4)
	d.PickedPlayerIDs = []uuid.UUID{players[1].ID}

	got := AvailablePlayers(players, d)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.NotEqual(t, players[1].ID, p.ID)
	}
}
