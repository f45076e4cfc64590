package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// activeDraft builds an active draft over the given team order with rounds
// rounds; teams in assignments are human controlled.
func activeDraft(t *testing.T, teams []string, rounds int, assignments map[string]string) *models.Draft {
	t.Helper()
	cfg := models.DraftConfig{Rounds: rounds, Year: 2026}
	d := NewDraft(cfg, teams, assignments, time.Now())
	active, err := Start(d, time.Now())
	require.NoError(t, err)
	return active
}

func catalog(n int) []models.Player {
	players := make([]models.Player, n)
	positions := []models.Position{models.PositionQB, models.PositionWR, models.PositionOT, models.PositionCB, models.PositionEDGE}
	for i := range players {
		players[i] = models.Player{
			ID:            uuid.New(),
			FullName:      fmt.Sprintf("Player %d", i+1),
			Position:      positions[i%len(positions)],
			ConsensusRank: i + 1,
		}
	}
	return players
}

func TestCommitPickHumanHappyPath(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"DAL": "u1"})
	players := catalog(3)
	now := time.Now()

	next, pick, err := CommitPick(d, "u1", players[0].ID, now)
	require.NoError(t, err)

	assert.Equal(t, 2, next.CurrentPick)
	assert.Equal(t, models.DraftStatusActive, next.Status)
	assert.Equal(t, []uuid.UUID{players[0].ID}, next.PickedPlayerIDs)

	assert.Equal(t, 1, pick.Overall)
	assert.Equal(t, "DAL", pick.Team)
	assert.Equal(t, "u1", pick.UserID)
	assert.Equal(t, players[0].ID, pick.PlayerID)
	assert.Equal(t, now, pick.MadeAt)

	// Input snapshot untouched.
	assert.Equal(t, 1, d.CurrentPick)
	assert.Empty(t, d.PickedPlayerIDs)
}

func TestCommitPickRejectsInactiveDraft(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	players := catalog(2)

	for _, status := range []models.DraftStatus{
		models.DraftStatusLobby,
		models.DraftStatusPaused,
		models.DraftStatusComplete,
		models.DraftStatusCancelled,
	} {
		d.Status = status
		_, _, err := CommitPick(d, "", players[0].ID, time.Now())
		assert.ErrorIs(t, err, ErrDraftNotActive)
	}
}

func TestCommitPickRejectsDuplicatePlayer(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	players := catalog(2)

	next, _, err := CommitPick(d, "", players[0].ID, time.Now())
	require.NoError(t, err)

	_, _, err = CommitPick(next, "", players[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrPlayerAlreadyPicked)
	assert.Equal(t, 2, next.CurrentPick, "rejection mutates nothing")
	assert.Len(t, next.PickedPlayerIDs, 1)
}

func TestCommitPickRejectsWrongUser(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"DAL": "u1", "NYG": "u2"})
	players := catalog(2)

	_, _, err := CommitPick(d, "u2", players[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// A human slot rejects the CPU path too.
	_, _, err = CommitPick(d, "", players[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestCommitPickRejectsUserOnCPUSlot(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"NYG": "u2"})
	players := catalog(2)

	_, _, err := CommitPick(d, "u2", players[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrNotYourTurn, "DAL's slot is CPU controlled")
}

func TestCommitPickHonorsTradeOverride(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"NYG": "u2"})
	players := catalog(2)

	// Slot 1 was traded to NYG, so u2 is on the clock immediately.
	d.PickOrder[0].TeamOverride = "NYG"
	d.PickOrder[0].OwnerOverride = true

	next, pick, err := CommitPick(d, "u2", players[0].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "NYG", pick.Team)
	assert.Equal(t, 2, next.CurrentPick)
}

func TestCommitPickFinalPickCompletesAtomically(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	players := catalog(2)

	next, _, err := CommitPick(d, "", players[0].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusActive, next.Status)

	final, _, err := CommitPick(next, "", players[1].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusComplete, final.Status)
	assert.Equal(t, 3, final.CurrentPick)
	assert.Len(t, final.PickedPlayerIDs, 2)
}

func TestCommitPickRoundAdvances(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 2, nil)
	players := catalog(4)

	next, _, err := CommitPick(d, "", players[0].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentRound)

	next, _, err = CommitPick(next, "", players[1].ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, next.CurrentRound, "cursor crossed into round 2")
}

func TestCommitAutoPickSkipsControllerGate(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"DAL": "u1"})
	players := catalog(2)

	next, pick, err := CommitAutoPick(d, players[0].ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, next.CurrentPick)
	assert.Empty(t, pick.UserID, "timeout auto-picks carry no user id")
	assert.Equal(t, "DAL", pick.Team)
}

func TestCommitAutoPickStillRejectsInactiveAndDuplicates(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, map[string]string{"DAL": "u1"})
	players := catalog(2)

	next, _, err := CommitAutoPick(d, players[0].ID, time.Now())
	require.NoError(t, err)

	_, _, err = CommitAutoPick(next, players[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrPlayerAlreadyPicked)

	next.Status = models.DraftStatusPaused
	_, _, err = CommitAutoPick(next, players[1].ID, time.Now())
	assert.ErrorIs(t, err, ErrDraftNotActive)
}

func TestCommitPickSlotOutOfRangeIsFatal(t *testing.T) {
	d := activeDraft(t, []string{"DAL", "NYG"}, 1, nil)
	d.CurrentPick = 99

	_, _, err := CommitPick(d, "", uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}
