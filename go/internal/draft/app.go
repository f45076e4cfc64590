package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft/events"
	"github.com/gridironlabs/mockdraft/go/internal/draft/outbox"
	"github.com/gridironlabs/mockdraft/go/internal/engine/control"
	"github.com/gridironlabs/mockdraft/go/internal/engine/cpu"
	"github.com/gridironlabs/mockdraft/go/internal/engine/needs"
	"github.com/gridironlabs/mockdraft/go/internal/engine/sim"
	"github.com/gridironlabs/mockdraft/go/internal/engine/trade"
	"github.com/gridironlabs/mockdraft/go/internal/models"
	"github.com/gridironlabs/mockdraft/go/internal/sqlutil"
)

var (
	// ErrUnknownPlayer rejects a pick for a player id absent from the
	// draft class catalog.
	ErrUnknownPlayer = errors.New("player not in draft class")
	// ErrTradesDisabled rejects trade operations on a draft configured
	// without trading.
	ErrTradesDisabled = errors.New("trades are disabled for this draft")
)

// CPU pacing per speed profile. Instant drains synchronously; the timed
// profiles arm one deadline per CPU turn so picks land on a visible cadence.
const (
	cpuDelayFast   = 2 * time.Second
	cpuDelayNormal = 5 * time.Second
)

// App handles draft business logic. Every state mutation runs as a single
// transaction that saves the draft snapshot over the version it was read at
// and dual-writes the outbox rows announcing the change.
type App struct {
	db     *sql.DB
	repo   *Repository
	outbox *outbox.App
	clock  clockwork.Clock
	needs  map[string][]models.Position
	eval   trade.EvalProfile

	// rng feeds the CPU selector; mu serializes draws across drafts.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewApp(db *sql.DB, repo *Repository, ob *outbox.App, clock clockwork.Clock, needsByTeam map[string][]models.Position, eval trade.EvalProfile, rng *rand.Rand) *App {
	return &App{
		db:     db,
		repo:   repo,
		outbox: ob,
		clock:  clock,
		needs:  needsByTeam,
		eval:   eval,
		rng:    rng,
	}
}

// inTxn runs fn with repository and outbox bound to one transaction.
func (a *App) inTxn(ctx context.Context, fn func(repo *Repository, ob *outbox.App) error) error {
	return sqlutil.Run(ctx, a.db, func(tx *sql.Tx) error {
		return fn(a.repo.WithTx(tx), a.outbox.WithTx(tx))
	})
}

// CreateDraft sets up a lobby draft from the request.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if req.Config.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be at least 1, got %d", req.Config.Rounds)
	}
	if len(req.TeamOrder) == 0 {
		return nil, fmt.Errorf("team order cannot be empty")
	}
	order := make(map[string]bool, len(req.TeamOrder))
	for _, team := range req.TeamOrder {
		if order[team] {
			return nil, fmt.Errorf("duplicate team %s in draft order", team)
		}
		order[team] = true
	}
	for team := range req.TeamAssignments {
		if !order[team] {
			return nil, fmt.Errorf("assignment for team %s not in draft order", team)
		}
	}

	d := sim.NewDraft(req.Config, req.TeamOrder, req.TeamAssignments, a.clock.Now())
	if err := a.repo.CreateDraft(ctx, d); err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", d.ID.String()).
		Int("rounds", d.Config.Rounds).
		Int("teams", len(req.TeamOrder)).
		Msg("draft created")
	return d, nil
}

// GetDraft retrieves a draft snapshot.
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return a.repo.GetDraft(ctx, id)
}

// GetState retrieves the gateway read model: the snapshot plus the pick log.
func (a *App) GetState(ctx context.Context, id uuid.UUID) (*State, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	picks, err := a.repo.ListPicksByDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return &State{Draft: d, Picks: picks}, nil
}

// StartDraft moves a lobby draft onto the clock.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	started, err := sim.Start(d, a.clock.Now())
	if err != nil {
		return nil, err
	}

	err = a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, started, d.Version); err != nil {
			return err
		}
		return ob.Insert(ctx, id, events.TypeDraftStarted, events.DraftStartedPayload{
			DraftID:     id.String(),
			Year:        started.Config.Year,
			TotalRounds: started.Config.Rounds,
			TotalPicks:  len(started.PickOrder),
			StartedAt:   started.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("draft_id", id.String()).Msg("draft started")
	return started, nil
}

// PauseDraft freezes an active draft. The armed deadline is dropped so no
// timeout fires while paused.
func (a *App) PauseDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	paused, err := sim.Pause(d, a.clock.Now())
	if err != nil {
		return nil, err
	}

	err = a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, paused, d.Version); err != nil {
			return err
		}
		if err := repo.ClearNextDeadline(ctx, id); err != nil {
			return err
		}
		return ob.Insert(ctx, id, events.TypeDraftPaused, events.DraftPausedPayload{
			DraftID:  id.String(),
			PausedAt: paused.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("draft_id", id.String()).Msg("draft paused")
	return paused, nil
}

// ResumeDraft puts a paused draft back on the clock. The orchestrator
// re-arms the current slot when it sees the resume event.
func (a *App) ResumeDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	resumed, err := sim.Resume(d, a.clock.Now())
	if err != nil {
		return nil, err
	}

	err = a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, resumed, d.Version); err != nil {
			return err
		}
		return ob.Insert(ctx, id, events.TypeDraftResumed, events.DraftResumedPayload{
			DraftID:   id.String(),
			ResumedAt: resumed.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("draft_id", id.String()).Msg("draft resumed")
	return resumed, nil
}

// CancelDraft terminates a draft from any non-terminal status.
func (a *App) CancelDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled, err := sim.Cancel(d, a.clock.Now())
	if err != nil {
		return nil, err
	}

	err = a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, cancelled, d.Version); err != nil {
			return err
		}
		if err := repo.ClearNextDeadline(ctx, id); err != nil {
			return err
		}
		return ob.Insert(ctx, id, events.TypeDraftCancelled, events.DraftCancelledPayload{
			DraftID:     id.String(),
			CancelledAt: cancelled.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("draft_id", id.String()).Msg("draft cancelled")
	return cancelled, nil
}

// CommitUserPick records a human selection for the current slot.
func (a *App) CommitUserPick(ctx context.Context, draftID uuid.UUID, userID string, playerID uuid.UUID) (*models.Pick, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	players, err := a.repo.ListPlayersByYear(ctx, d.Config.Year)
	if err != nil {
		return nil, err
	}
	if !inCatalog(players, playerID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}

	next, pick, err := sim.CommitPick(d, userID, playerID, a.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := a.persistPicks(ctx, d, next, []models.Pick{pick}, players); err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("overall", pick.Overall).
		Str("user_id", userID).
		Msg("pick committed")
	return &pick, nil
}

// AdvanceCPU processes at most one CPU turn and persists the result. Used by
// the orchestrator for the timed speed profiles.
func (a *App) AdvanceCPU(ctx context.Context, draftID uuid.UUID) (sim.TurnResult, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return sim.TurnResult{}, err
	}
	players, err := a.repo.ListPlayersByYear(ctx, d.Config.Year)
	if err != nil {
		return sim.TurnResult{}, err
	}

	a.mu.Lock()
	res, err := sim.AdvanceOneTurn(d, players, a.needs, a.rng, a.clock.Now())
	a.mu.Unlock()
	if err != nil {
		return sim.TurnResult{}, err
	}
	if res.Pick == nil {
		return res, nil
	}

	if err := a.persistPicks(ctx, d, res.Draft, []models.Pick{*res.Pick}, players); err != nil {
		return sim.TurnResult{}, err
	}
	return res, nil
}

// RunCPUTurns drains consecutive CPU turns in one transaction: the instant
// speed profile. Returns the final snapshot, the committed picks, and the
// outcome that stopped the drain.
func (a *App) RunCPUTurns(ctx context.Context, draftID uuid.UUID) (*models.Draft, []models.Pick, sim.Outcome, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, nil, "", err
	}
	players, err := a.repo.ListPlayersByYear(ctx, d.Config.Year)
	if err != nil {
		return nil, nil, "", err
	}

	a.mu.Lock()
	final, picks, outcome, err := sim.AdvanceUntilHuman(d, players, a.needs, a.rng, a.clock.Now())
	a.mu.Unlock()
	if err != nil {
		return nil, nil, "", err
	}
	if len(picks) == 0 {
		return final, nil, outcome, nil
	}

	if err := a.persistPicks(ctx, d, final, picks, players); err != nil {
		return nil, nil, "", err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("picks", len(picks)).
		Str("outcome", string(outcome)).
		Msg("cpu turns drained")
	return final, picks, outcome, nil
}

// SchedulePick arms the clock for the draft's current slot: a pick timer for
// human slots, a pacing delay for CPU slots, or a synchronous drain when the
// draft runs at instant speed.
func (a *App) SchedulePick(ctx context.Context, draftID uuid.UUID) error {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if d.Status != models.DraftStatusActive {
		return a.repo.ClearNextDeadline(ctx, draftID)
	}
	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return a.repo.ClearNextDeadline(ctx, draftID)
	}

	controller, human := control.Controller(d, *slot)

	if !human && d.Config.CPUSpeed == models.CPUSpeedInstant {
		_, _, _, err := a.RunCPUTurns(ctx, draftID)
		return err
	}

	now := a.clock.Now()
	var deadline time.Time
	switch {
	case human && d.Config.SecondsPerPick > 0:
		deadline = now.Add(time.Duration(d.Config.SecondsPerPick) * time.Second)
	case !human && d.Config.CPUSpeed == models.CPUSpeedFast:
		deadline = now.Add(cpuDelayFast)
	case !human:
		deadline = now.Add(cpuDelayNormal)
	}

	return a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if deadline.IsZero() {
			// Untimed human slot: no deadline, no auto-pick.
			if err := repo.ClearNextDeadline(ctx, draftID); err != nil {
				return err
			}
		} else {
			if err := repo.UpdateNextDeadline(ctx, draftID, deadline, slot.Overall); err != nil {
				return err
			}
		}
		payload := events.PickStartedPayload{
			Overall:        slot.Overall,
			Round:          slot.Round,
			Pick:           slot.Pick,
			Team:           slot.ControllingTeam(),
			UserID:         controller,
			StartedAt:      now,
			SecondsPerPick: d.Config.SecondsPerPick,
		}
		if !deadline.IsZero() {
			payload.TimeoutAt = deadline
		}
		return ob.Insert(ctx, draftID, events.TypePickStarted, payload)
	})
}

// HandlePickTimeout fires when the armed deadline for awaitedOverall passes.
// It re-fetches fresh state and acts only if that exact slot is still on the
// clock; a pick or trade that landed in the meantime makes the timer stale
// and the handler a no-op.
func (a *App) HandlePickTimeout(ctx context.Context, draftID uuid.UUID, awaitedOverall int) error {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if d.Status != models.DraftStatusActive {
		return a.repo.ClearNextDeadline(ctx, draftID)
	}
	if TimerIsStale(d, awaitedOverall) {
		log.Debug().
			Str("draft_id", draftID.String()).
			Int("awaited", awaitedOverall).
			Int("current", d.CurrentPick).
			Msg("stale pick timer ignored")
		return nil
	}

	players, err := a.repo.ListPlayersByYear(ctx, d.Config.Year)
	if err != nil {
		return err
	}
	available := sim.AvailablePlayers(players, d)
	if len(available) == 0 {
		return fmt.Errorf("auto-pick draft %s at %d: %w", draftID, awaitedOverall, cpu.ErrNoPlayersAvailable)
	}

	slot := d.SlotAt(d.CurrentPick)
	team := slot.ControllingTeam()
	effective := a.effectiveNeeds(d, team, players)

	a.mu.Lock()
	player, err := cpu.SelectPick(available, effective, d.Config.Tuning, a.rng)
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("auto-pick for %s: %w", team, err)
	}

	next, pick, err := sim.CommitAutoPick(d, player.ID, a.clock.Now())
	if err != nil {
		return err
	}
	if err := a.persistPicks(ctx, d, next, []models.Pick{pick}, players); err != nil {
		return err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("overall", pick.Overall).
		Str("team", team).
		Msg("auto-pick committed on timeout")
	return nil
}

// FetchNextDeadline exposes the soonest armed deadline to the orchestrator.
func (a *App) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	return a.repo.FetchNextDeadline(ctx)
}

// FetchDuePicks exposes past-deadline drafts to the orchestrator.
func (a *App) FetchDuePicks(ctx context.Context, now time.Time, limit int32) ([]DuePick, error) {
	return a.repo.FetchDuePicks(ctx, now, limit)
}

// TimerIsStale reports whether a deadline armed for awaitedOverall no longer
// matches the draft's cursor. A pick or trade that landed after the timer was
// armed moves the cursor, and the timer must then do nothing.
func TimerIsStale(d *models.Draft, awaitedOverall int) bool {
	return d.CurrentPick != awaitedOverall
}

// Suggest recommends a pick for the user's current turn, or nil off-turn.
func (a *App) Suggest(ctx context.Context, draftID uuid.UUID, userID string) (*cpu.Suggestion, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	players, err := a.repo.ListPlayersByYear(ctx, d.Config.Year)
	if err != nil {
		return nil, err
	}

	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return nil, nil
	}
	available := sim.AvailablePlayers(players, d)
	effective := a.effectiveNeeds(d, slot.ControllingTeam(), players)

	return cpu.Suggest(d, userID, available, effective), nil
}

// persistPicks saves the advanced snapshot with its pick records and events
// in one transaction. The armed deadline is dropped so a pending timer for
// the slot just filled goes stale.
func (a *App) persistPicks(ctx context.Context, prev, next *models.Draft, picks []models.Pick, players []models.Player) error {
	catalog := make(map[uuid.UUID]models.Player, len(players))
	for _, p := range players {
		catalog[p.ID] = p
	}

	return a.inTxn(ctx, func(repo *Repository, ob *outbox.App) error {
		if err := repo.SaveDraft(ctx, next, prev.Version); err != nil {
			return err
		}
		if err := repo.ClearNextDeadline(ctx, next.ID); err != nil {
			return err
		}
		for _, pick := range picks {
			if err := repo.InsertPick(ctx, pick); err != nil {
				return err
			}
			payload := events.PickMadePayload{
				PickID:   pick.ID.String(),
				Overall:  pick.Overall,
				Round:    pick.Round,
				Pick:     pick.Pick,
				Team:     pick.Team,
				UserID:   pick.UserID,
				PlayerID: pick.PlayerID.String(),
				MadeAt:   pick.MadeAt,
			}
			if player, ok := catalog[pick.PlayerID]; ok {
				payload.PlayerName = player.FullName
			}
			if err := ob.Insert(ctx, next.ID, events.TypePickMade, payload); err != nil {
				return err
			}
		}
		if next.Status == models.DraftStatusComplete {
			return ob.Insert(ctx, next.ID, events.TypeDraftCompleted, events.DraftCompletedPayload{
				DraftID:     next.ID.String(),
				TotalPicks:  len(next.PickedPlayerIDs),
				CompletedAt: next.UpdatedAt,
			})
		}
		return nil
	})
}

func (a *App) effectiveNeeds(d *models.Draft, team string, players []models.Player) []models.Position {
	catalog := make(map[uuid.UUID]models.Player, len(players))
	for _, p := range players {
		catalog[p.ID] = p
	}
	drafted := needs.TeamDraftedPositions(d.PickOrder, d.PickedPlayerIDs, team, catalog)
	return needs.EffectiveNeeds(a.needs[team], drafted)
}

func inCatalog(players []models.Player, id uuid.UUID) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}
