package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/davicafu/matafuegos/internal/cliente/application"
	"github.com/davicafu/matafuegos/internal/cliente/domain"
	"github.com/davicafu/matafuegos/internal/mocks"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (*gin.Engine, *application.ClienteService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := mocks.NewInMemoryClienteRepo()
	service := application.NewClienteService(repo, repo, table.FixedPageSize(10), zap.NewNop())

	r := gin.New()
	RegisterClienteRoutes(r, NewClienteHandler(service))
	return r, service
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestClienteCRUD_HTTP(t *testing.T) {
	r, _ := setupRouter(t)

	rec := do(r, http.MethodPost, "/clientes", application.CreateClienteInput{Nombre: "Acme", CUIT: "30712345679"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[domain.Cliente](t, rec).Data
	assert.Equal(t, "Acme", created.Nombre)

	rec = do(r, http.MethodGet, "/clientes/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPut, "/clientes/"+created.ID.String(), map[string]any{"telefono": "011-4444"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "011-4444", decode[domain.Cliente](t, rec).Data.Telefono)

	rec = do(r, http.MethodPut, "/clientes/"+created.ID.String(), map[string]any{"cuit": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodDelete, "/clientes/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/clientes/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/clientes/no-es-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCliente_Validation(t *testing.T) {
	r, _ := setupRouter(t)

	rec := do(r, http.MethodPost, "/clientes", map[string]any{"cuit": "30712345679"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "nombre es requerido")

	rec = do(r, http.MethodPost, "/clientes", application.CreateClienteInput{Nombre: "Acme", CUIT: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[any](t, rec).Error.Message, "cuit")
}

func TestListClientes_FiltersAndSort(t *testing.T) {
	r, service := setupRouter(t)
	ctx := context.Background()
	for _, n := range []string{"Beta", "Acme", "Acuario"} {
		_, err := service.CreateCliente(ctx, application.CreateClienteInput{Nombre: n})
		require.NoError(t, err)
	}

	rec := do(r, http.MethodGet, "/clientes?nombre=ac&sort_field=nombre&sort_desc=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]domain.Cliente](t, rec).Data
	require.Len(t, list, 2)
	assert.Equal(t, "Acuario", list[0].Nombre)
	assert.Equal(t, "Acme", list[1].Nombre)
}

func TestTableClientes_HTTP(t *testing.T) {
	r, service := setupRouter(t)
	ctx := context.Background()
	for _, n := range []string{"Beta", "Acme", "Ñandú", "Zeta"} {
		_, err := service.CreateCliente(ctx, application.CreateClienteInput{Nombre: n})
		require.NoError(t, err)
	}

	rec := do(r, http.MethodGet, "/clientes/table?sort=nombre&dir=asc&page_size=2&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[table.View](t, rec).Data
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, 1, view.Page)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Ñandú", view.Rows[0].Cells[0].Text)
	assert.Equal(t, "Zeta", view.Rows[1].Cells[0].Text)
	assert.False(t, view.HasAdd)
	for _, a := range view.Rows[0].Actions {
		assert.NotContains(t, []string{table.ActionView, table.ActionEdit}, a.Name)
	}

	rec = do(r, http.MethodGet, "/clientes/table?q=xyz", nil)
	view = decode[table.View](t, rec).Data
	assert.True(t, view.Empty)
	assert.Equal(t, "No hay clientes cargados", view.EmptyMessage)

	rec = do(r, http.MethodGet, "/clientes/table?sort=telefono", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "telefono no es ordenable")

	rec = do(r, http.MethodGet, "/clientes/table?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportClientes_CSV(t *testing.T) {
	r, service := setupRouter(t)
	_, err := service.CreateCliente(context.Background(), application.CreateClienteInput{Nombre: "Acme", CUIT: "30712345679"})
	require.NoError(t, err)

	rec := do(r, http.MethodGet, "/clientes/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clientes.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Nombre,CUIT"))
	assert.Contains(t, lines[1], "30-71234567-9")

	rec = do(r, http.MethodGet, "/clientes/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvokeCliente_HTTP(t *testing.T) {
	r, service := setupRouter(t)
	c, err := service.CreateCliente(context.Background(), application.CreateClienteInput{Nombre: "Acme"})
	require.NoError(t, err)

	rec := do(r, http.MethodPost, "/clientes/actions/archivar/"+c.ID.String(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/clientes/actions/delete/"+c.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodPost, "/clientes/actions/delete/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSucursales_HTTP(t *testing.T) {
	r, service := setupRouter(t)
	acme, err := service.CreateCliente(context.Background(), application.CreateClienteInput{Nombre: "Acme"})
	require.NoError(t, err)

	rec := do(r, http.MethodPost, "/sucursales", application.CreateSucursalInput{ClienteID: acme.ID, Nombre: "Planta Norte", Localidad: "Pilar"})
	require.Equal(t, http.StatusCreated, rec.Code)
	suc := decode[domain.Sucursal](t, rec).Data
	require.NotNil(t, suc.Cliente)
	assert.Equal(t, "Acme", suc.Cliente.Nombre)

	rec = do(r, http.MethodPost, "/sucursales", application.CreateSucursalInput{ClienteID: uuid.New(), Nombre: "Huérfana"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/sucursales?cliente_id="+acme.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Sucursal](t, rec).Data, 1)

	rec = do(r, http.MethodGet, "/sucursales/table?filter[cliente]=acm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[table.View](t, rec).Data
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Acme", view.Rows[0].Cells[1].Text)
}
