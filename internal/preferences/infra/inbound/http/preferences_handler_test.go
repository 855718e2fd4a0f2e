package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/davicafu/matafuegos/internal/preferences/application"
	"github.com/davicafu/matafuegos/internal/preferences/domain"
	"github.com/davicafu/matafuegos/internal/preferences/infra/outbound/filesystem"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, path string) (*gin.Engine, *application.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := application.NewStore(filesystem.NewJSONSettingsFile(path), zap.NewNop())
	require.NoError(t, store.Init(context.Background()))
	r := gin.New()
	RegisterPreferencesRoutes(r, NewPreferencesHandler(store))
	return r, store
}

func do(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) domain.Settings {
	t.Helper()
	var env struct {
		Data domain.Settings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func TestPreferences_HTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	r, store := setupRouter(t, path)

	rec := do(r, http.MethodGet, "/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Defaults(), decode(t, rec))

	rec = do(r, http.MethodPut, "/preferences", `{"theme":"dark","items_per_page":25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, 25, got.ItemsPerPage)
	assert.Equal(t, "es", got.Language)
	assert.Equal(t, 25, store.ItemsPerPage())

	// Otra instancia lee lo guardado en disco.
	r2, _ := setupRouter(t, path)
	rec = do(r2, http.MethodGet, "/preferences", "")
	assert.Equal(t, 25, decode(t, rec).ItemsPerPage)
}

func TestPreferences_InvalidUpdate_HTTP(t *testing.T) {
	r, store := setupRouter(t, filepath.Join(t.TempDir(), "prefs.json"))

	for _, body := range []string{`{"theme":"sepia"}`, `{"items_per_page":0}`, `{"date_format":"YY"}`, `{theme`} {
		rec := do(r, http.MethodPut, "/preferences", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, domain.Defaults(), store.Get())
}
