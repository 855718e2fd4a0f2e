package sqlstore

import (
	"context"
	"testing"
	"time"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*TareaRepo, *sharedSQL.OutboxRepo) {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := persistence.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(ctx, db, dialect))
	return NewTareaRepo(db, dialect), sharedSQL.NewOutboxRepo(db, dialect)
}

func seed(t *testing.T, repo *TareaRepo, titulo string, tipo tareaDomain.Tipo, asignado uuid.UUID) *tareaDomain.Tarea {
	t.Helper()
	tarea, err := tareaDomain.NewTarea(titulo, "", tipo, asignado, nil, nil)
	require.NoError(t, err)
	evt := sharedDomain.NewOutboxEvent(tareaDomain.TareaTopic, tarea.ID.String(), tareaDomain.TareaCreated, tarea.CreatedEvent())
	require.NoError(t, repo.Create(context.Background(), tarea, evt))
	return tarea
}

func TestTareaRepo_CRUDWithOutbox(t *testing.T) {
	ctx := context.Background()
	repo, outbox := setupRepo(t)

	sucursal := uuid.New()
	programada := time.Date(2025, 4, 1, 13, 30, 0, 0, time.UTC)
	tarea, err := tareaDomain.NewTarea("Inspección", "depósito", tareaDomain.TipoInspeccion, uuid.New(), &sucursal, &programada)
	require.NoError(t, err)
	evt := sharedDomain.NewOutboxEvent(tareaDomain.TareaTopic, tarea.ID.String(), tareaDomain.TareaCreated, tarea.CreatedEvent())
	require.NoError(t, repo.Create(ctx, tarea, evt))
	assert.ErrorIs(t, repo.Create(ctx, tarea, evt), tareaDomain.ErrTareaAlreadyExists)

	got, err := repo.GetByID(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, "depósito", got.Descripcion)
	require.NotNil(t, got.SucursalID)
	assert.Equal(t, sucursal, *got.SucursalID)
	require.NotNil(t, got.FechaProgramada)
	assert.True(t, got.FechaProgramada.Equal(programada))

	require.NoError(t, got.Complete())
	got.FechaProgramada = nil
	upd := sharedDomain.NewOutboxEvent(tareaDomain.TareaTopic, got.ID.String(), tareaDomain.TareaUpdated, got.UpdatedEvent())
	require.NoError(t, repo.Update(ctx, got, upd))

	got, err = repo.GetByID(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, tareaDomain.EstadoCompletada, got.Estado)
	assert.Nil(t, got.FechaProgramada)

	del := sharedDomain.NewOutboxEvent(tareaDomain.TareaTopic, tarea.ID.String(), tareaDomain.TareaDeleted, nil)
	require.NoError(t, repo.DeleteByID(ctx, tarea.ID, del))
	_, err = repo.GetByID(ctx, tarea.ID)
	assert.ErrorIs(t, err, tareaDomain.ErrTareaNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, tarea.ID, del), tareaDomain.ErrTareaNotFound)

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3, "el Create duplicado no deja evento")
	assert.Equal(t, tareaDomain.TareaUpdated, pending[1].EventType)
}

func TestTareaRepo_ListByCriteria(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	ana, beto := uuid.New(), uuid.New()

	seed(t, repo, "Recarga polvo", tareaDomain.TipoMantenimiento, ana)
	seed(t, repo, "Inspección planta", tareaDomain.TipoInspeccion, ana)
	hecha := seed(t, repo, "Relevamiento sótano", tareaDomain.TipoRelevamiento, beto)

	require.NoError(t, hecha.Complete())
	upd := sharedDomain.NewOutboxEvent(tareaDomain.TareaTopic, hecha.ID.String(), tareaDomain.TareaUpdated, hecha.UpdatedEvent())
	require.NoError(t, repo.Update(ctx, hecha, upd))

	t.Run("pendientes de un asignado", func(t *testing.T) {
		crit := sharedDomain.And(tareaDomain.AsignadoCriteria{ID: ana}, tareaDomain.EstadoCriteria{Estado: tareaDomain.EstadoPendiente})
		list, err := repo.ListByCriteria(ctx, crit, nil, sharedQuery.Sort{Field: "titulo"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Inspección planta", list[0].Titulo)
	})

	t.Run("título sin distinguir mayúsculas y paginado", func(t *testing.T) {
		list, err := repo.ListByCriteria(ctx, tareaDomain.TituloLikeCriteria{Titulo: "RE"}, sharedQuery.Page(0, 1), sharedQuery.Sort{Field: "titulo", Desc: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Relevamiento sótano", list[0].Titulo)
	})

	t.Run("tipo o estado", func(t *testing.T) {
		crit := sharedDomain.Or(tareaDomain.TipoCriteria{Tipo: tareaDomain.TipoMantenimiento}, tareaDomain.EstadoCriteria{Estado: tareaDomain.EstadoCompletada})
		list, err := repo.ListByCriteria(ctx, crit, nil, sharedQuery.Sort{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("campo desconocido", func(t *testing.T) {
		_, err := repo.ListByCriteria(ctx, nil, nil, sharedQuery.Sort{Field: "password"})
		assert.ErrorIs(t, err, persistence.ErrUnknownField)
	})
}
