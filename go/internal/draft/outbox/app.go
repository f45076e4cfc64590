package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// App wraps the outbox repository with payload marshalling. Draft state
// changes call Insert inside the same transaction as their own writes.
type App struct {
	repo *Repository
}

func NewApp(repo *Repository) *App {
	return &App{repo: repo}
}

// WithTx returns an App bound to the transaction so the event insert commits
// or rolls back with the state change it announces.
func (a *App) WithTx(tx *sql.Tx) *App {
	return &App{repo: a.repo.WithTx(tx)}
}

// Insert marshals the payload and writes one outbox row.
func (a *App) Insert(ctx context.Context, draftID uuid.UUID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("event payload cannot be empty")
	}

	if err := a.repo.InsertEvent(ctx, draftID, eventType, data); err != nil {
		return err
	}

	log.Debug().
		Str("draft_id", draftID.String()).
		Str("event_type", eventType).
		Msg("outbox event inserted")

	return nil
}

// FetchUnsentEvents fetches events the listener has not relayed yet.
func (a *App) FetchUnsentEvents(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}
	return a.repo.FetchUnsent(ctx, limit)
}

// MarkEventSent marks an outbox event as relayed.
func (a *App) MarkEventSent(ctx context.Context, eventID uuid.UUID) error {
	return a.repo.MarkSent(ctx, eventID)
}

// GetEventByID fetches a specific unsent outbox event.
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*OutboxEvent, error) {
	return a.repo.FetchByID(ctx, eventID)
}
