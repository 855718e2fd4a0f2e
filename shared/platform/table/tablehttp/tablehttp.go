// Package tablehttp conecta el navegador tabular con gin: parseo de la query y
// respuestas de vista y exportación.
package tablehttp

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/davicafu/matafuegos/pkg/utils"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/gin-gonic/gin"
)

// ErrorMapping traduce los errores del motor de tablas a códigos HTTP.
var ErrorMapping = utils.ErrorMapping{
	table.ErrInvalidQuery:       http.StatusBadRequest,
	table.ErrColumnNotSortable:  http.StatusBadRequest,
	table.ErrUnknownFormat:      http.StatusBadRequest,
	table.ErrUnknownAction:      http.StatusBadRequest,
	table.ErrRecordNotFound:     http.StatusNotFound,
	table.ErrNoAddHandler:       http.StatusBadRequest,
	persistence.ErrUnknownField: http.StatusBadRequest,
}

// Merge combina el mapeo de tablas con el de un contexto.
func Merge(mappings ...utils.ErrorMapping) utils.ErrorMapping {
	out := utils.ErrorMapping{}
	for k, v := range ErrorMapping {
		out[k] = v
	}
	for _, m := range mappings {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// ParseState lee el estado de la tabla de la query. Si falla responde 400 y devuelve false.
func ParseState[T any](c *gin.Context, filters []table.FilterConfig[T]) (table.State, bool) {
	st, err := table.ParseQuery(c.Request.URL.Query(), filters)
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return table.State{}, false
	}
	return st, true
}

// SendView responde la página actual de la tabla.
func SendView[T any](c *gin.Context, t *table.Table[T]) {
	utils.SendSuccess(c, http.StatusOK, t.View())
}

// SendExport responde todas las filas filtradas y ordenadas como archivo (?format=csv|xlsx).
func SendExport[T any](c *gin.Context, t *table.Table[T], name string) {
	format, err := table.ParseFormat(c.Query("format"))
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := table.Write(&buf, format, t); err != nil {
		utils.SendInternalServerError(c, "export failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
