package needs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/mockdraft/go/internal/models"
)

func slot(overall int, team string) models.DraftSlot {
	return models.DraftSlot{Overall: overall, Round: 1, Pick: overall, Team: team}
}

func TestTeamDraftedPositions(t *testing.T) {
	wr := models.Player{ID: uuid.New(), Position: models.PositionWR}
	qb := models.Player{ID: uuid.New(), Position: models.PositionQB}
	cb := models.Player{ID: uuid.New(), Position: models.PositionCB}
	players := map[uuid.UUID]models.Player{wr.ID: wr, qb.ID: qb, cb.ID: cb}

	pickOrder := []models.DraftSlot{slot(1, "DAL"), slot(2, "NYG"), slot(3, "DAL")}
	picked := []uuid.UUID{wr.ID, qb.ID, cb.ID}

	drafted := TeamDraftedPositions(pickOrder, picked, "DAL", players)
	assert.Equal(t, []models.Position{models.PositionWR, models.PositionCB}, drafted)

	assert.Equal(t, []models.Position{models.PositionQB}, TeamDraftedPositions(pickOrder, picked, "NYG", players))
	assert.Empty(t, TeamDraftedPositions(pickOrder, picked, "PHI", players))
}

func TestTeamDraftedPositionsHonorsTradeOverride(t *testing.T) {
	wr := models.Player{ID: uuid.New(), Position: models.PositionWR}
	players := map[uuid.UUID]models.Player{wr.ID: wr}

	traded := slot(1, "NYG")
	traded.TeamOverride = "DAL"
	pickOrder := []models.DraftSlot{traded, slot(2, "DAL")}
	picked := []uuid.UUID{wr.ID}

	assert.Equal(t, []models.Position{models.PositionWR}, TeamDraftedPositions(pickOrder, picked, "DAL", players),
		"traded slot must count toward its controller at selection time")
	assert.Empty(t, TeamDraftedPositions(pickOrder, picked, "NYG", players))
}

func TestEffectiveNeedsConsumesFromFront(t *testing.T) {
	static := []models.Position{models.PositionWR, models.PositionOT, models.PositionWR, models.PositionCB}

	got := EffectiveNeeds(static, []models.Position{models.PositionWR})
	assert.Equal(t, []models.Position{models.PositionOT, models.PositionWR, models.PositionCB}, got,
		"one drafted WR consumes only the first WR need")

	got = EffectiveNeeds(static, []models.Position{models.PositionWR, models.PositionWR, models.PositionCB})
	assert.Equal(t, []models.Position{models.PositionOT}, got)
}

func TestEffectiveNeedsIgnoresNonNeedPositions(t *testing.T) {
	static := []models.Position{models.PositionWR, models.PositionOT}
	got := EffectiveNeeds(static, []models.Position{models.PositionQB, models.PositionK})
	assert.Equal(t, static, got)
}

func TestEffectiveNeedsNeverMutatesInput(t *testing.T) {
	static := []models.Position{models.PositionWR, models.PositionOT, models.PositionCB}
	original := append([]models.Position(nil), static...)

	_ = EffectiveNeeds(static, []models.Position{models.PositionOT, models.PositionWR})
	require.Equal(t, original, static, "static need list must never be mutated")
}

func TestEffectiveNeedsNeverGrows(t *testing.T) {
	static := []models.Position{models.PositionWR, models.PositionOT}
	drafted := []models.Position{}
	for _, pos := range []models.Position{models.PositionWR, models.PositionOT, models.PositionQB, models.PositionWR} {
		drafted = append(drafted, pos)
		assert.LessOrEqual(t, len(EffectiveNeeds(static, drafted)), len(static))
	}
	assert.Empty(t, EffectiveNeeds(nil, drafted))
}
