package application

import (
	"context"
	"testing"
	"time"

	"github.com/davicafu/matafuegos/internal/mocks"
	"github.com/davicafu/matafuegos/internal/usuario/domain"
	"github.com/davicafu/matafuegos/shared/platform/cache"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() (*UsuarioService, *mocks.InMemoryUsuarioRepo, *cache.InMemoryCache) {
	repo := mocks.NewInMemoryUsuarioRepo()
	c := cache.NewInMemoryCache(time.Minute, 0)
	return NewUsuarioService(repo, c, 60, table.FixedPageSize(10), zap.NewNop()), repo, c
}

func birth(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func cached(c cache.Cache, id uuid.UUID) func() bool {
	return func() bool {
		var u domain.Usuario
		ok, _ := c.Get(context.Background(), domain.CacheKeyByID(id), &u)
		return ok
	}
}

func TestCreateUsuario_CachesAndSkipsRepoOnGet(t *testing.T) {
	ctx := context.Background()
	service, repo, c := newService()

	u, err := service.CreateUsuario(ctx, CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "tecnico", BirthDate: birth(1990)})
	require.NoError(t, err)
	assert.Equal(t, domain.RolTecnico, u.Rol)
	assert.Equal(t, []string{domain.UsuarioCreated}, repo.EventTypes())

	assert.Eventually(t, cached(c, u.ID), time.Second, 10*time.Millisecond)

	got, err := service.GetUsuario(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Zero(t, repo.Gets, "el Get sale de la caché")
}

func TestCreateUsuario_Validation(t *testing.T) {
	service, _, _ := newService()

	_, err := service.CreateUsuario(context.Background(), CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "jefe"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsuario)

	_, err = service.CreateUsuario(context.Background(), CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "admin"})
	require.NoError(t, err)
	_, err = service.CreateUsuario(context.Background(), CreateUsuarioInput{Email: "ANA@example.com", Nombre: "Otra", Rol: "admin"})
	assert.ErrorIs(t, err, domain.ErrUsuarioAlreadyExists)
}

func TestCreateUsuario_KeepsGivenID(t *testing.T) {
	service, _, _ := newService()
	id := uuid.New()

	u, err := service.CreateUsuario(context.Background(), CreateUsuarioInput{ID: id, Email: "bo@example.com", Nombre: "Bo", Rol: "cliente"})
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
}

func TestGetUsuario_NotFoundIsNotRetried(t *testing.T) {
	service, repo, _ := newService()

	_, err := service.GetUsuario(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUsuarioNotFound)
	assert.Equal(t, 1, repo.Gets)
}

func TestUpdateUsuario(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService()
	u, err := service.CreateUsuario(ctx, CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "tecnico"})
	require.NoError(t, err)

	rol, nombre := "supervisor", "  Ana María "
	got, err := service.UpdateUsuario(ctx, u.ID, UpdateUsuarioInput{Rol: &rol, Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, domain.RolSupervisor, got.Rol)
	assert.Equal(t, "Ana María", got.Nombre)
	assert.True(t, got.Can(domain.AsignarTareas))

	bad := "x"
	_, err = service.UpdateUsuario(ctx, u.ID, UpdateUsuarioInput{Email: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidUsuario)

	_, err = service.UpdateUsuario(ctx, uuid.New(), UpdateUsuarioInput{Rol: &rol})
	assert.ErrorIs(t, err, domain.ErrUsuarioNotFound)

	assert.Equal(t, []string{domain.UsuarioCreated, domain.UsuarioUpdated}, repo.EventTypes())
}

func TestDeleteUsuario_EvictsCache(t *testing.T) {
	ctx := context.Background()
	service, repo, c := newService()
	u, err := service.CreateUsuario(ctx, CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "tecnico"})
	require.NoError(t, err)
	assert.Eventually(t, cached(c, u.ID), time.Second, 10*time.Millisecond)

	require.NoError(t, service.DeleteUsuario(ctx, u.ID))
	assert.Eventually(t, func() bool { return !cached(c, u.ID)() }, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, service.DeleteUsuario(ctx, u.ID), domain.ErrUsuarioNotFound)
	assert.Equal(t, []string{domain.UsuarioCreated, domain.UsuarioDeleted}, repo.EventTypes())
}

func TestTableUsuarios(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()
	for _, in := range []CreateUsuarioInput{
		{Email: "ana@example.com", Nombre: "Ana", Rol: "tecnico", BirthDate: birth(1990)},
		{Email: "bruno@example.com", Nombre: "Bruno", Rol: "admin", BirthDate: birth(1970)},
		{Email: "ceci@example.com", Nombre: "Cecilia", Rol: "tecnico", BirthDate: birth(2000)},
	} {
		_, err := service.CreateUsuario(ctx, in)
		require.NoError(t, err)
	}

	t.Run("filtro por rol y orden por edad descendente", func(t *testing.T) {
		tbl, err := service.TableUsuarios(ctx, table.State{
			Filters: table.Filters{"rol": "tecnico"},
			Sort:    table.SortState{Key: "edad", Dir: table.Desc},
		})
		require.NoError(t, err)
		view := tbl.View()
		require.Len(t, view.Rows, 2)
		assert.Equal(t, "Ana", view.Rows[0].Cells[0].Text)
		assert.Equal(t, "Técnico", view.Rows[0].Cells[2].Text)
		assert.Equal(t, "Cecilia", view.Rows[1].Cells[0].Text)
	})

	t.Run("búsqueda por email", func(t *testing.T) {
		tbl, err := service.TableUsuarios(ctx, table.State{Search: "BRUNO@"})
		require.NoError(t, err)
		require.Len(t, tbl.Filtered(), 1)
		assert.Equal(t, domain.RolAdmin, tbl.Filtered()[0].Rol)
	})

	t.Run("columna no ordenable", func(t *testing.T) {
		_, err := service.TableUsuarios(ctx, table.State{Sort: table.SortState{Key: "password", Dir: table.Asc}})
		assert.Error(t, err)
	})
}

func TestInvokeUsuario_Desactivar(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService()
	u, err := service.CreateUsuario(ctx, CreateUsuarioInput{Email: "ana@example.com", Nombre: "Ana", Rol: "tecnico"})
	require.NoError(t, err)

	require.NoError(t, service.InvokeUsuario(ctx, "desactivar", u.ID))
	stored, err := repo.Store.Get(u.ID)
	require.NoError(t, err)
	assert.False(t, stored.Activo)

	assert.ErrorIs(t, service.InvokeUsuario(ctx, "ascender", u.ID), table.ErrUnknownAction)
}
