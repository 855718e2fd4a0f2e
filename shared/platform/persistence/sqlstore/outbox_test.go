package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	"github.com/davicafu/matafuegos/shared/platform/persistence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := persistence.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(ctx, db, dialect, OutboxDDL))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOutboxRepo_InsertFetchMark(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewOutboxRepo(db, persistence.SQLite)
	qb := persistence.SQLite.Builder()

	id := uuid.New()
	evt := sharedDomain.NewOutboxEvent("cliente", id.String(), "cliente.deleted", sharedEvents.EntityDeleted{ID: id})

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, InsertOutboxTx(ctx, tx, qb, evt))
	require.NoError(t, tx.Commit())

	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, evt.ID, pending[0].ID)
	assert.Equal(t, "cliente.deleted", pending[0].EventType)

	var payload sharedEvents.EntityDeleted
	require.NoError(t, json.Unmarshal(pending[0].Payload.(json.RawMessage), &payload))
	assert.Equal(t, id, payload.ID)

	require.NoError(t, repo.MarkOutboxProcessed(ctx, evt.ID))
	pending, err = repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Error(t, repo.MarkOutboxProcessed(ctx, uuid.New()))
}

func TestOutboxRepo_RollbackDiscardsEvent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewOutboxRepo(db, persistence.SQLite)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, InsertOutboxTx(ctx, tx, persistence.SQLite.Builder(),
		sharedDomain.NewOutboxEvent("tarea", "1", "tarea.created", map[string]string{"titulo": "x"})))
	require.NoError(t, tx.Rollback())

	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
