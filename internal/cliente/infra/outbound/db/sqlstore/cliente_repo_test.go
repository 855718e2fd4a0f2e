package sqlstore

import (
	"context"
	"testing"

	clienteDomain "github.com/davicafu/matafuegos/internal/cliente/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repo, *sharedSQL.OutboxRepo) {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := persistence.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(ctx, db, dialect))
	return NewRepo(db, dialect), sharedSQL.NewOutboxRepo(db, dialect)
}

func evt(c *clienteDomain.Cliente, eventType string) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent("cliente", c.ID.String(), eventType, c.ToEvent())
}

func seed(t *testing.T, repo *Repo, nombre string, activo bool) *clienteDomain.Cliente {
	t.Helper()
	c, err := clienteDomain.NewCliente(nombre, "", "", "")
	require.NoError(t, err)
	c.Activo = activo
	require.NoError(t, repo.Create(context.Background(), c, evt(c, clienteDomain.ClienteCreated)))
	return c
}

func TestRepo_ClienteCRUDWithOutbox(t *testing.T) {
	ctx := context.Background()
	repo, outbox := setupRepo(t)

	c := seed(t, repo, "Acme", true)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Nombre)
	assert.True(t, got.Activo)

	got.Nombre = "Acme SA"
	require.NoError(t, repo.Update(ctx, got, evt(got, clienteDomain.ClienteUpdated)))

	got, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme SA", got.Nombre)

	require.NoError(t, repo.DeleteByID(ctx, c.ID, evt(c, clienteDomain.ClienteDeleted)))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, clienteDomain.ErrClienteNotFound)

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, clienteDomain.ClienteCreated, pending[0].EventType)
}

func TestRepo_NotFoundRollsBackOutbox(t *testing.T) {
	ctx := context.Background()
	repo, outbox := setupRepo(t)

	ghost, _ := clienteDomain.NewCliente("Fantasma", "", "", "")
	assert.ErrorIs(t, repo.Update(ctx, ghost, evt(ghost, clienteDomain.ClienteUpdated)), clienteDomain.ErrClienteNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, ghost.ID, evt(ghost, clienteDomain.ClienteDeleted)), clienteDomain.ErrClienteNotFound)

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRepo_ListWithCriteria(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	seed(t, repo, "Acme", true)
	seed(t, repo, "Beta", false)
	seed(t, repo, "acme norte", true)

	list, err := repo.List(ctx, clienteDomain.NombreLikeCriteria{Nombre: "ACME"}, nil, sharedQuery.Sort{Field: "nombre", Desc: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme norte", list[0].Nombre)

	list, err = repo.List(ctx, sharedDomain.And(
		clienteDomain.ActivoCriteria{Activo: false},
	), sharedQuery.Page(0, 10), sharedQuery.Sort{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta", list[0].Nombre)

	list, err = repo.List(ctx, nil, sharedQuery.Page(1, 2), sharedQuery.Sort{Field: "nombre"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.List(ctx, nil, nil, sharedQuery.Sort{Field: "nombre; DROP TABLE clientes"})
	assert.ErrorIs(t, err, persistence.ErrUnknownField)
}

func TestRepo_SucursalesHydrateCliente(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	acme := seed(t, repo, "Acme", true)
	beta := seed(t, repo, "Beta", true)

	for _, s := range []struct {
		cliente *clienteDomain.Cliente
		nombre  string
	}{{acme, "Planta Norte"}, {acme, "Depósito"}, {beta, "Central"}} {
		suc, err := clienteDomain.NewSucursal(s.cliente.ID, s.nombre, "", "Rosario")
		require.NoError(t, err)
		require.NoError(t, repo.CreateSucursal(ctx, suc, sharedDomain.NewOutboxEvent("sucursal", suc.ID.String(), clienteDomain.SucursalCreated, suc.ToEvent())))
	}

	list, err := repo.ListSucursales(ctx, sharedDomain.Conditions{{Field: "cliente.nombre", Op: sharedDomain.OpEq, Value: "Acme"}}, nil, sharedQuery.Sort{Field: "nombre"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Depósito", list[0].Nombre)
	require.NotNil(t, list[0].Cliente)
	assert.Equal(t, "Acme", list[0].Cliente.Nombre)

	got, err := repo.GetSucursal(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.Cliente.ID)

	_, err = repo.GetSucursal(ctx, uuid.New())
	assert.ErrorIs(t, err, clienteDomain.ErrSucursalNotFound)

	orphan, _ := clienteDomain.NewSucursal(uuid.New(), "Huérfana", "", "")
	err = repo.CreateSucursal(ctx, orphan, sharedDomain.NewOutboxEvent("sucursal", orphan.ID.String(), clienteDomain.SucursalCreated, orphan.ToEvent()))
	assert.ErrorIs(t, err, clienteDomain.ErrClienteNotFound)
}
