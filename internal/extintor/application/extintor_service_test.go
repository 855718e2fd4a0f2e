package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/davicafu/matafuegos/internal/extintor/domain"
	"github.com/davicafu/matafuegos/internal/mocks"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var hoy = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

type fixture struct {
	service *ExtintorService
	repo    *mocks.InMemoryExtintorRepo
	norte   *domain.Sucursal
	sur     *domain.Sucursal
}

func newFixture() fixture {
	acme := &domain.Cliente{ID: uuid.New(), Nombre: "Acme"}
	beta := &domain.Cliente{ID: uuid.New(), Nombre: "Beta"}
	norte := &domain.Sucursal{ID: uuid.New(), Nombre: "Planta Norte", Cliente: acme}
	sur := &domain.Sucursal{ID: uuid.New(), Nombre: "Depósito Sur", Cliente: beta}

	repo := mocks.NewInMemoryExtintorRepo()
	service := NewExtintorService(repo, mocks.NewSucursalReader(norte, sur), table.FixedPageSize(10), zap.NewNop()).
		WithClock(func() time.Time { return hoy })
	return fixture{service: service, repo: repo, norte: norte, sur: sur}
}

func (f fixture) create(t *testing.T, codigo, tipo, vence string, sucursal *domain.Sucursal) *domain.Extintor {
	t.Helper()
	in := CreateExtintorInput{Codigo: codigo, Tipo: tipo, CapacidadKg: 5, FechaFabricacion: day("2020-01-01"), FechaVencimiento: day(vence)}
	if sucursal != nil {
		in.SucursalID = &sucursal.ID
	}
	e, err := f.service.CreateExtintor(context.Background(), in)
	require.NoError(t, err)
	return e
}

func TestCreateExtintor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e := f.create(t, "a-001", "abc", "2025-12-31", f.norte)
	assert.Equal(t, "A-001", e.Codigo)
	assert.Equal(t, domain.TipoABC, e.Tipo)
	assert.Equal(t, []string{domain.ExtintorCreated}, f.repo.EventTypes())

	otra := uuid.New()
	_, err := f.service.CreateExtintor(ctx, CreateExtintorInput{Codigo: "X", Tipo: "ABC", CapacidadKg: 1, FechaVencimiento: day("2026-01-01"), SucursalID: &otra})
	assert.ErrorIs(t, err, domain.ErrSucursalNotFound)

	_, err = f.service.CreateExtintor(ctx, CreateExtintorInput{Codigo: "X", Tipo: "espuma", CapacidadKg: 1, FechaVencimiento: day("2026-01-01")})
	assert.ErrorIs(t, err, domain.ErrInvalidExtintor)
}

func TestGetExtintor_HydratesSucursal(t *testing.T) {
	f := newFixture()
	e := f.create(t, "A-001", "ABC", "2025-12-31", f.norte)

	got, err := f.service.GetExtintor(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Sucursal)
	assert.Equal(t, "Planta Norte", got.Sucursal.Nombre)
	assert.Equal(t, "Acme", got.Sucursal.Cliente.Nombre)

	_, err = f.service.GetExtintor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrExtintorNotFound)
}

func TestUpdateExtintor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.create(t, "A-001", "ABC", "2025-12-31", f.norte)

	got, err := f.service.UpdateExtintor(ctx, e.ID, UpdateExtintorInput{CapacidadKg: sharedUtils.Ptr(10.0), Activo: sharedUtils.Ptr(false), SucursalID: &f.sur.ID})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.CapacidadKg)
	assert.False(t, got.Activo)
	assert.Equal(t, f.sur.ID, *got.SucursalID)

	got, err = f.service.UpdateExtintor(ctx, e.ID, UpdateExtintorInput{QuitarSucursal: true})
	require.NoError(t, err)
	assert.Nil(t, got.SucursalID)

	_, err = f.service.UpdateExtintor(ctx, e.ID, UpdateExtintorInput{CapacidadKg: sharedUtils.Ptr(0.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidExtintor)

	_, err = f.service.UpdateExtintor(ctx, uuid.New(), UpdateExtintorInput{})
	assert.ErrorIs(t, err, domain.ErrExtintorNotFound)
}

func TestRecargar(t *testing.T) {
	f := newFixture()
	e := f.create(t, "A-001", "ABC", "2025-02-01", nil)

	got, err := f.service.Recargar(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UltimaCarga)
	assert.Equal(t, hoy, *got.UltimaCarga)
	assert.Equal(t, hoy.AddDate(1, 0, 0), got.FechaVencimiento)
	assert.Equal(t, []string{domain.ExtintorCreated, domain.ExtintorRecargado}, f.repo.EventTypes())
}

func TestTableExtintores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "A-003", "ABC", "2025-02-20", f.norte) // vencido
	f.create(t, "A-001", "CO2", "2025-03-15", f.sur)   // por vencer
	f.create(t, "B-001", "ABC", "2025-12-01", f.sur)   // vigente
	f.create(t, "A-002", "AGUA", "2026-01-01", nil)

	t.Run("filtro anidado por cliente", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{Filters: table.Filters{"cliente": "beta"}, Sort: table.SortState{Key: "codigo", Dir: table.Asc}})
		require.NoError(t, err)
		v := tbl.View()
		require.Len(t, v.Rows, 2)
		assert.Equal(t, "A-001", v.Rows[0].Cells[0].Text)
		assert.Equal(t, "Beta", v.Rows[0].Cells[3].Text)
		assert.Equal(t, "Depósito Sur", v.Rows[0].Cells[4].Text)
	})

	t.Run("estado calculado", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{Filters: table.Filters{"estado": "por_vencer"}})
		require.NoError(t, err)
		v := tbl.View()
		require.Len(t, v.Rows, 1)
		assert.Equal(t, "Por vencer", v.Rows[0].Cells[7].Text)
		assert.Equal(t, "5,0 kg", v.Rows[0].Cells[2].Text)
	})

	t.Run("sin sucursal no matchea filtro anidado", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{Filters: table.Filters{"sucursal": "a"}})
		require.NoError(t, err)
		for _, r := range tbl.View().Rows {
			assert.NotEqual(t, "A-002", r.Cells[0].Text)
		}
	})

	t.Run("orden por vencimiento desc y select de tipo", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{
			Filters: table.Filters{"tipo": "ABC"},
			Sort:    table.SortState{Key: "fecha_vencimiento", Dir: table.Desc},
		})
		require.NoError(t, err)
		v := tbl.View()
		require.Len(t, v.Rows, 2)
		assert.Equal(t, "B-001", v.Rows[0].Cells[0].Text)
		assert.Equal(t, "A-003", v.Rows[1].Cells[0].Text)
	})

	t.Run("búsqueda sin resultados", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{Search: "xyz", Page: 3})
		require.NoError(t, err)
		v := tbl.View()
		assert.True(t, v.Empty)
		assert.Equal(t, 0, v.Page)
		assert.Equal(t, "No hay extintores cargados", v.EmptyMessage)
	})

	t.Run("acciones de fila", func(t *testing.T) {
		tbl, err := f.service.TableExtintores(ctx, table.State{})
		require.NoError(t, err)
		names := []string{}
		for _, a := range tbl.View().Rows[0].Actions {
			names = append(names, a.Name)
		}
		assert.Equal(t, []string{"delete", "recargar"}, names)
		assert.False(t, tbl.View().HasAdd)
		assert.ErrorIs(t, tbl.Invoke(table.ActionView, tbl.View().Rows[0].ID), table.ErrUnknownAction)
	})
}

func TestInvokeExtintor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.create(t, "A-001", "ABC", "2025-02-01", nil)

	require.NoError(t, f.service.InvokeExtintor(ctx, "recargar", e.ID))
	got, _ := f.service.GetExtintor(ctx, e.ID)
	assert.NotNil(t, got.UltimaCarga)

	assert.ErrorIs(t, f.service.InvokeExtintor(ctx, "pintar", e.ID), table.ErrUnknownAction)

	require.NoError(t, f.service.InvokeExtintor(ctx, "delete", e.ID))
	_, err := f.service.GetExtintor(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrExtintorNotFound)
}

func TestPorVencer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "VENCIDO", "ABC", "2025-02-28", nil)
	f.create(t, "ULTIMO-DIA", "ABC", "2025-03-31", nil)
	f.create(t, "HOY", "ABC", "2025-03-01", nil)
	f.create(t, "LEJOS", "ABC", "2025-04-01", nil)
	inactivo := f.create(t, "INACTIVO", "ABC", "2025-03-10", nil)
	no := false
	_, err := f.service.UpdateExtintor(ctx, inactivo.ID, UpdateExtintorInput{Activo: &no})
	require.NoError(t, err)

	list, err := f.service.PorVencer(ctx, 30)
	require.NoError(t, err)
	codigos := []string{}
	for _, e := range list {
		codigos = append(codigos, e.Codigo)
	}
	assert.Equal(t, []string{"HOY", "ULTIMO-DIA"}, codigos)

	list, err = f.service.ListExtintores(ctx, domain.CodigoCriteria{Codigo: "dia"}, nil, sharedQuery.Sort{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVencimientoScanner_PublishesPerExtintor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "A-001", "ABC", "2025-03-05", f.norte)
	f.create(t, "A-002", "ABC", "2025-03-20", nil)
	f.create(t, "A-003", "ABC", "2026-03-20", nil)

	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e sharedEvents.IntegrationEvent) bool {
		return e.Type == domain.ExtintorPorVencer && e.Topic == domain.ExtintorTopic
	})).Return(nil)

	scanner := NewVencimientoScanner(f.service, publisher, 30, zap.NewNop())
	n, err := scanner.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	publisher.AssertNumberOfCalls(t, "Publish", 2)

	first := publisher.Calls[0].Arguments.Get(1).(sharedEvents.IntegrationEvent)
	assert.Equal(t, a.ID.String(), first.Key)
	assert.JSONEq(t, `"A-001"`, jsonField(t, first.Data, "codigo"))
	assert.JSONEq(t, `4`, jsonField(t, first.Data, "dias_restantes"))
}

func jsonField(t *testing.T, data json.RawMessage, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	return string(m[field])
}
