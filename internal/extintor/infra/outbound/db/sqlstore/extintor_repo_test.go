package sqlstore

import (
	"context"
	"testing"
	"time"

	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*ExtintorRepo, *sharedSQL.OutboxRepo) {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := persistence.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(ctx, db, dialect))
	return NewExtintorRepo(db, dialect), sharedSQL.NewOutboxRepo(db, dialect)
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seed(t *testing.T, repo *ExtintorRepo, codigo string, tipo extintorDomain.Tipo, vence string, sucursal *uuid.UUID) *extintorDomain.Extintor {
	t.Helper()
	e, err := extintorDomain.NewExtintor(codigo, tipo, 5, "Melisam", day("2023-01-01"), day(vence), sucursal)
	require.NoError(t, err)
	evt := sharedDomain.NewOutboxEvent("extintor", e.ID.String(), extintorDomain.ExtintorCreated, e.ToEvent())
	require.NoError(t, repo.Create(context.Background(), e, evt))
	return e
}

func TestExtintorRepo_CRUDWithOutbox(t *testing.T) {
	ctx := context.Background()
	repo, outbox := setupRepo(t)
	sucursal := uuid.New()

	e := seed(t, repo, "A-001", extintorDomain.TipoABC, "2025-06-30", &sucursal)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-001", got.Codigo)
	assert.Equal(t, extintorDomain.TipoABC, got.Tipo)
	require.NotNil(t, got.SucursalID)
	assert.Equal(t, sucursal, *got.SucursalID)
	assert.Nil(t, got.UltimaCarga)
	assert.True(t, got.FechaVencimiento.Equal(day("2025-06-30")))

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	got.Recargar(now)
	got.SucursalID = nil
	evt := sharedDomain.NewOutboxEvent("extintor", got.ID.String(), extintorDomain.ExtintorRecargado, got.ToEvent())
	require.NoError(t, repo.Update(ctx, got, evt))

	got, err = repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UltimaCarga)
	assert.True(t, got.UltimaCarga.Equal(now))
	assert.Nil(t, got.SucursalID)

	del := sharedDomain.NewOutboxEvent("extintor", e.ID.String(), extintorDomain.ExtintorDeleted, nil)
	require.NoError(t, repo.DeleteByID(ctx, e.ID, del))
	_, err = repo.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, extintorDomain.ErrExtintorNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, e.ID, del), extintorDomain.ErrExtintorNotFound)

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, extintorDomain.ExtintorCreated, pending[0].EventType)
	assert.Equal(t, extintorDomain.ExtintorRecargado, pending[1].EventType)
}

func TestExtintorRepo_DuplicateCodigoRollsBack(t *testing.T) {
	ctx := context.Background()
	repo, outbox := setupRepo(t)
	seed(t, repo, "A-001", extintorDomain.TipoABC, "2025-06-30", nil)

	dup, err := extintorDomain.NewExtintor("a-001", extintorDomain.TipoCO2, 3.5, "", time.Time{}, day("2026-01-01"), nil)
	require.NoError(t, err)
	evt := sharedDomain.NewOutboxEvent("extintor", dup.ID.String(), extintorDomain.ExtintorCreated, dup.ToEvent())
	assert.Error(t, repo.Create(ctx, dup, evt))

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "el evento del insert fallido no queda en la outbox")
}

func TestExtintorRepo_ListByCriteria(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	planta := uuid.New()

	seed(t, repo, "A-003", extintorDomain.TipoABC, "2025-01-15", &planta)
	seed(t, repo, "A-001", extintorDomain.TipoCO2, "2025-02-10", &planta)
	seed(t, repo, "B-001", extintorDomain.TipoABC, "2025-03-20", nil)
	seed(t, repo, "A-002", extintorDomain.TipoAgua, "2026-01-01", nil)

	list, err := repo.List(ctx, extintorDomain.TipoCriteria{Tipos: []extintorDomain.Tipo{extintorDomain.TipoABC, extintorDomain.TipoCO2}}, nil, sharedQuery.Sort{Field: "codigo"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"A-001", "A-003", "B-001"}, codigos(list))

	list, err = repo.List(ctx, sharedDomain.And(
		extintorDomain.VencimientoCriteria{Desde: day("2025-02-01"), Hasta: day("2025-03-31")},
		extintorDomain.ActivoCriteria{Activo: true},
	), nil, sharedQuery.Sort{Field: "fecha_vencimiento", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"B-001", "A-001"}, codigos(list))

	list, err = repo.List(ctx, extintorDomain.SucursalCriteria{SucursalID: planta}, sharedQuery.OffsetPagination{Limit: 1, Offset: 1}, sharedQuery.Sort{Field: "codigo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-003"}, codigos(list))

	list, err = repo.List(ctx, extintorDomain.CodigoCriteria{Codigo: "a-00"}, nil, sharedQuery.Sort{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = repo.List(ctx, nil, nil, sharedQuery.Sort{Field: "password"})
	assert.ErrorIs(t, err, persistence.ErrUnknownField)
}

func codigos(list []*extintorDomain.Extintor) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Codigo
	}
	return out
}
