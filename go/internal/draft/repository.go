package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/mockdraft/go/internal/models"
	"github.com/gridironlabs/mockdraft/go/internal/sqlutil"
)

var (
	// ErrDraftNotFound is returned when no draft row matches the id.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrTradeNotFound is returned when no trade row matches the id.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrVersionConflict is returned when an optimistic save loses the race
	// against a concurrent writer. Callers re-read and retry.
	ErrVersionConflict = errors.New("draft version conflict")
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx, so repository
// methods run identically inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository persists drafts, picks, trades and the player catalog. Draft
// snapshots are stored as JSONB columns; the version column serializes
// concurrent writers per draft.
type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const createDraftQuery = `
INSERT INTO drafts (
	id, status, config, team_assignments, pick_order, picked_player_ids,
	future_picks, current_pick, current_round, version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *Repository) CreateDraft(ctx context.Context, d *models.Draft) error {
	cols, err := marshalDraftColumns(d)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, createDraftQuery,
		d.ID, d.Status, cols.config, cols.assignments, cols.pickOrder,
		cols.pickedIDs, cols.futurePicks, d.CurrentPick, d.CurrentRound,
		d.Version, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

const getDraftQuery = `
SELECT id, status, config, team_assignments, pick_order, picked_player_ids,
	future_picks, current_pick, current_round, version, created_at, updated_at
FROM drafts
WHERE id = $1`

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, getDraftQuery, id)

	var (
		d    models.Draft
		cols draftColumns
	)
	err := row.Scan(&d.ID, &d.Status, &cols.config, &cols.assignments,
		&cols.pickOrder, &cols.pickedIDs, &cols.futurePicks,
		&d.CurrentPick, &d.CurrentRound, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	if err := cols.unmarshalInto(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

const saveDraftQuery = `
UPDATE drafts SET
	status = $2, config = $3, team_assignments = $4, pick_order = $5,
	picked_player_ids = $6, future_picks = $7, current_pick = $8,
	current_round = $9, version = version + 1, updated_at = $10
WHERE id = $1 AND version = $11`

// SaveDraft persists a new snapshot over the version the caller read. When a
// concurrent writer got there first it returns ErrVersionConflict and writes
// nothing; on success the snapshot's Version is bumped to match the row.
func (r *Repository) SaveDraft(ctx context.Context, d *models.Draft, expectedVersion int) error {
	cols, err := marshalDraftColumns(d)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, saveDraftQuery,
		d.ID, d.Status, cols.config, cols.assignments, cols.pickOrder,
		cols.pickedIDs, cols.futurePicks, d.CurrentPick, d.CurrentRound,
		d.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: draft %s version %d", ErrVersionConflict, d.ID, expectedVersion)
	}

	d.Version = expectedVersion + 1
	return nil
}

const insertPickQuery = `
INSERT INTO picks (id, draft_id, overall, round, pick, team, user_id, player_id, made_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *Repository) InsertPick(ctx context.Context, p models.Pick) error {
	_, err := r.db.ExecContext(ctx, insertPickQuery,
		p.ID, p.DraftID, p.Overall, p.Round, p.Pick, p.Team,
		sqlutil.ToSqlString(p.UserID), p.PlayerID, p.MadeAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

const listPicksQuery = `
SELECT id, draft_id, overall, round, pick, team, user_id, player_id, made_at
FROM picks
WHERE draft_id = $1
ORDER BY overall`

func (r *Repository) ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Pick, error) {
	rows, err := r.db.QueryContext(ctx, listPicksQuery, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.Pick
	for rows.Next() {
		var (
			p      models.Pick
			userID sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.DraftID, &p.Overall, &p.Round, &p.Pick,
			&p.Team, &userID, &p.PlayerID, &p.MadeAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		p.UserID = sqlutil.FromSqlString(userID)
		picks = append(picks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate picks: %w", err)
	}
	return picks, nil
}

const insertTradeQuery = `
INSERT INTO trades (
	id, draft_id, status, proposer_id, proposer_team, recipient_id,
	recipient_team, proposer_gives, proposer_receives, is_force_trade, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (r *Repository) InsertTrade(ctx context.Context, t *models.Trade) error {
	gives, err := json.Marshal(t.ProposerGives)
	if err != nil {
		return fmt.Errorf("failed to marshal trade pieces: %w", err)
	}
	receives, err := json.Marshal(t.ProposerReceives)
	if err != nil {
		return fmt.Errorf("failed to marshal trade pieces: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertTradeQuery,
		t.ID, t.DraftID, t.Status, t.ProposerID, t.ProposerTeam,
		sqlutil.ToSqlString(t.RecipientID), t.RecipientTeam,
		gives, receives, t.IsForceTrade, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

const getTradeQuery = `
SELECT id, draft_id, status, proposer_id, proposer_team, recipient_id,
	recipient_team, proposer_gives, proposer_receives, is_force_trade,
	created_at, resolved_at
FROM trades
WHERE id = $1`

func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := r.db.QueryRowContext(ctx, getTradeQuery, id)
	t, err := scanTrade(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTradeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return t, nil
}

const listPendingTradesQuery = `
SELECT id, draft_id, status, proposer_id, proposer_team, recipient_id,
	recipient_team, proposer_gives, proposer_receives, is_force_trade,
	created_at, resolved_at
FROM trades
WHERE draft_id = $1 AND status = $2
ORDER BY created_at`

func (r *Repository) ListPendingTrades(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, listPendingTradesQuery, draftID, models.TradeStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}
	return trades, nil
}

const tradeExistsQuery = `SELECT EXISTS (SELECT 1 FROM trades WHERE id = $1)`

func (r *Repository) tradeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, tradeExistsQuery, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check trade existence: %w", err)
	}
	return exists, nil
}

const resolveTradeQuery = `
UPDATE trades SET status = $2, resolved_at = $3, evaluation = $4
WHERE id = $1 AND status = $5`

// ResolveTrade moves a pending trade row to a terminal status, optionally
// recording the CPU evaluation that produced the verdict.
func (r *Repository) ResolveTrade(ctx context.Context, id uuid.UUID, status models.TradeStatus, resolvedAt time.Time, evaluation any) error {
	eval, err := sqlutil.ToNullRaw(evaluation)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, resolveTradeQuery,
		id, status, resolvedAt, eval, models.TradeStatusPending)
	if err != nil {
		return fmt.Errorf("failed to resolve trade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s (not pending)", ErrTradeNotFound, id)
	}
	return nil
}

const fetchNextDeadlineQuery = `
SELECT id, next_deadline
FROM drafts
WHERE status = 'ACTIVE' AND next_deadline IS NOT NULL
ORDER BY next_deadline
LIMIT 1`

// FetchNextDeadline returns the soonest armed pick deadline, or nil when no
// active draft has one.
func (r *Repository) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	row := r.db.QueryRowContext(ctx, fetchNextDeadlineQuery)

	var (
		nd       NextDeadline
		deadline sql.NullTime
	)
	err := row.Scan(&nd.DraftID, &deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next deadline: %w", err)
	}
	nd.Deadline = sqlutil.FromSqlTime(deadline)
	return &nd, nil
}

const fetchDuePicksQuery = `
SELECT id, deadline_overall
FROM drafts
WHERE status = 'ACTIVE' AND next_deadline IS NOT NULL AND next_deadline <= $1
ORDER BY next_deadline
LIMIT $2`

// FetchDuePicks returns drafts whose armed deadline has passed, with the
// overall slot each deadline was armed for.
func (r *Repository) FetchDuePicks(ctx context.Context, now time.Time, limit int32) ([]DuePick, error) {
	rows, err := r.db.QueryContext(ctx, fetchDuePicksQuery, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due picks: %w", err)
	}
	defer rows.Close()

	var due []DuePick
	for rows.Next() {
		var (
			dp      DuePick
			overall sql.NullInt32
		)
		if err := rows.Scan(&dp.DraftID, &overall); err != nil {
			return nil, fmt.Errorf("failed to scan due pick: %w", err)
		}
		if overall.Valid {
			dp.Overall = int(overall.Int32)
		}
		due = append(due, dp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due picks: %w", err)
	}
	return due, nil
}

const updateNextDeadlineQuery = `
UPDATE drafts SET next_deadline = $2, deadline_overall = $3 WHERE id = $1`

func (r *Repository) UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline time.Time, overall int) error {
	if _, err := r.db.ExecContext(ctx, updateNextDeadlineQuery, draftID, deadline, overall); err != nil {
		return fmt.Errorf("failed to update next deadline: %w", err)
	}
	return nil
}

const clearNextDeadlineQuery = `
UPDATE drafts SET next_deadline = NULL, deadline_overall = NULL WHERE id = $1`

func (r *Repository) ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, clearNextDeadlineQuery, draftID); err != nil {
		return fmt.Errorf("failed to clear next deadline: %w", err)
	}
	return nil
}

const listPlayersQuery = `
SELECT id, full_name, position, college, consensus_rank, year
FROM players
WHERE year = $1
ORDER BY consensus_rank`

func (r *Repository) ListPlayersByYear(ctx context.Context, year int) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, listPlayersQuery, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.FullName, &p.Position, &p.College,
			&p.ConsensusRank, &p.Year); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// draftColumns holds the JSONB column values of a draft row.
type draftColumns struct {
	config      []byte
	assignments []byte
	pickOrder   []byte
	pickedIDs   []byte
	futurePicks []byte
}

func marshalDraftColumns(d *models.Draft) (draftColumns, error) {
	var (
		cols draftColumns
		err  error
	)
	if cols.config, err = json.Marshal(d.Config); err != nil {
		return cols, fmt.Errorf("failed to marshal draft config: %w", err)
	}
	if cols.assignments, err = json.Marshal(d.TeamAssignments); err != nil {
		return cols, fmt.Errorf("failed to marshal team assignments: %w", err)
	}
	if cols.pickOrder, err = json.Marshal(d.PickOrder); err != nil {
		return cols, fmt.Errorf("failed to marshal pick order: %w", err)
	}
	if cols.pickedIDs, err = json.Marshal(d.PickedPlayerIDs); err != nil {
		return cols, fmt.Errorf("failed to marshal picked players: %w", err)
	}
	if cols.futurePicks, err = json.Marshal(d.FuturePicks); err != nil {
		return cols, fmt.Errorf("failed to marshal future picks: %w", err)
	}
	return cols, nil
}

func (c *draftColumns) unmarshalInto(d *models.Draft) error {
	if err := json.Unmarshal(c.config, &d.Config); err != nil {
		return fmt.Errorf("failed to unmarshal draft config: %w", err)
	}
	if err := json.Unmarshal(c.assignments, &d.TeamAssignments); err != nil {
		return fmt.Errorf("failed to unmarshal team assignments: %w", err)
	}
	if err := json.Unmarshal(c.pickOrder, &d.PickOrder); err != nil {
		return fmt.Errorf("failed to unmarshal pick order: %w", err)
	}
	if err := json.Unmarshal(c.pickedIDs, &d.PickedPlayerIDs); err != nil {
		return fmt.Errorf("failed to unmarshal picked players: %w", err)
	}
	if err := json.Unmarshal(c.futurePicks, &d.FuturePicks); err != nil {
		return fmt.Errorf("failed to unmarshal future picks: %w", err)
	}
	return nil
}

func scanTrade(scan func(dest ...any) error) (*models.Trade, error) {
	var (
		t           models.Trade
		recipientID sql.NullString
		gives       []byte
		receives    []byte
		resolvedAt  sql.NullTime
	)
	err := scan(&t.ID, &t.DraftID, &t.Status, &t.ProposerID, &t.ProposerTeam,
		&recipientID, &t.RecipientTeam, &gives, &receives, &t.IsForceTrade,
		&t.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	t.RecipientID = sqlutil.FromSqlString(recipientID)
	t.ResolvedAt = sqlutil.FromSqlTime(resolvedAt)
	if err := json.Unmarshal(gives, &t.ProposerGives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade pieces: %w", err)
	}
	if err := json.Unmarshal(receives, &t.ProposerReceives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade pieces: %w", err)
	}
	return &t, nil
}
