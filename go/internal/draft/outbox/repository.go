package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when an outbox row does not exist or was
// already sent.
var ErrEventNotFound = errors.New("outbox event not found")

// DBTX is the query surface shared by *sql.DB and *sql.Tx so outbox inserts
// can ride the same transaction as the draft state change they announce.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

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

const insertEventQuery = `
INSERT INTO draft_outbox (id, draft_id, event_type, payload)
VALUES ($1, $2, $3, $4)`

// InsertEvent writes one outbox row. The insert trigger NOTIFYs the listener
// with the new row's id.
func (r *Repository) InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	if _, err := r.db.ExecContext(ctx, insertEventQuery, uuid.New(), draftID, eventType, payload); err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

const fetchByIDQuery = `
SELECT id, draft_id, event_type, payload, created_at, sent_at
FROM draft_outbox
WHERE id = $1 AND sent_at IS NULL`

func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	row := r.db.QueryRowContext(ctx, fetchByIDQuery, id)

	var (
		ev     OutboxEvent
		sentAt sql.NullTime
	)
	err := row.Scan(&ev.ID, &ev.DraftID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	if sentAt.Valid {
		ev.SentAt = &sentAt.Time
	}
	return &ev, nil
}

const fetchUnsentQuery = `
SELECT id, draft_id, event_type, payload, created_at, sent_at
FROM draft_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1`

func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, fetchUnsentQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var (
			ev     OutboxEvent
			sentAt sql.NullTime
		)
		if err := rows.Scan(&ev.ID, &ev.DraftID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		if sentAt.Valid {
			ev.SentAt = &sentAt.Time
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}
	return events, nil
}

const markSentQuery = `
UPDATE draft_outbox SET sent_at = NOW() WHERE id = $1 AND sent_at IS NULL`

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, markSentQuery, id); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}
