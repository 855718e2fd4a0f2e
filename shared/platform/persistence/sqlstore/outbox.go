// Package sqlstore implementa la tabla outbox compartida sobre database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// OutboxDDL crea la tabla outbox (sintaxis PostgreSQL, ver persistence.Dialect.Schema).
const OutboxDDL = `
CREATE TABLE IF NOT EXISTS outbox (
    id UUID PRIMARY KEY,
    aggregate_type TEXT NOT NULL,
    aggregate_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    payload JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    processed BOOLEAN NOT NULL DEFAULT FALSE
)`

// OutboxRepo implementa sharedDomain.OutboxRepository.
type OutboxRepo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewOutboxRepo(db *sql.DB, dialect persistence.Dialect) *OutboxRepo {
	return &OutboxRepo{db: db, qb: dialect.Builder()}
}

var _ sharedDomain.OutboxRepository = (*OutboxRepo)(nil)

// InsertOutboxTx guarda el evento dentro de la transacción del agregado.
func InsertOutboxTx(ctx context.Context, tx *sql.Tx, qb squirrel.StatementBuilderType, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = qb.Insert("outbox").
		Columns("id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at", "processed").
		Values(evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payloadBytes), evt.CreatedAt.UTC(), false).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchPendingOutbox obtiene los eventos no procesados, los más viejos primero.
func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	rows, err := r.qb.Select("id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at").
		From("outbox").
		Where(squirrel.Eq{"processed": false}).
		OrderBy("created_at").
		Limit(uint64(limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []sharedDomain.OutboxEvent
	for rows.Next() {
		var (
			idStr     string
			payload   []byte
			createdAt time.Time
			evt       sharedDomain.OutboxEvent
		)
		if err := rows.Scan(&idStr, &evt.AggregateType, &evt.AggregateID, &evt.EventType, &payload, &createdAt); err != nil {
			return nil, err
		}

		evt.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox row: %w", err)
		}
		// El payload queda como JSON crudo; el relayer lo decodifica al tipo del registro.
		evt.Payload = json.RawMessage(payload)
		evt.CreatedAt = createdAt
		events = append(events, evt)
	}
	return events, rows.Err()
}

// MarkOutboxProcessed marca un evento como publicado.
func (r *OutboxRepo) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.qb.Update("outbox").
		Set("processed", true).
		Where(squirrel.Eq{"id": id.String()}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return persistence.NotFoundIfNone(res, fmt.Errorf("outbox event not found: %s", id))
}
