package http

import (
	"net/http"
	"strconv"
	"time"

	extintorApp "github.com/davicafu/matafuegos/internal/extintor/application"
	extintorHTTP "github.com/davicafu/matafuegos/internal/extintor/infra/inbound/http"
	"github.com/davicafu/matafuegos/internal/reportes/application"
	"github.com/davicafu/matafuegos/pkg/utils"
	"github.com/davicafu/matafuegos/shared/platform/table/tablehttp"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

var errorMapping = tablehttp.Merge(extintorHTTP.ErrorMapping, utils.ErrorMapping{
	application.ErrInvalidRange:      http.StatusBadRequest,
	application.ErrAnalyticsDisabled: http.StatusServiceUnavailable,
})

type ReportesHandler struct {
	service *application.ReportesService
}

func NewReportesHandler(service *application.ReportesService) *ReportesHandler {
	return &ReportesHandler{service: service}
}

// TendenciaTareas endpoint GET /reportes/tareas/tendencia?from=YYYY-MM-DD&to=YYYY-MM-DD
// Ambas fechas son inclusivas; sin ellas se usan los últimos 30 días.
func (h *ReportesHandler) TendenciaTareas(c *gin.Context) {
	desde, hasta := h.service.DefaultRange()

	if from := c.Query("from"); from != "" {
		d, err := time.Parse(dateLayout, from)
		if err != nil {
			utils.SendBadRequest(c, "invalid from, use YYYY-MM-DD")
			return
		}
		desde = d
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse(dateLayout, to)
		if err != nil {
			utils.SendBadRequest(c, "invalid to, use YYYY-MM-DD")
			return
		}
		hasta = d.AddDate(0, 0, 1)
	}

	report, err := h.service.Tendencia(c.Request.Context(), desde, hasta)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, report)
}

// VencimientosExtintores endpoint GET /reportes/extintores/vencimientos?dias=N[&format=csv|xlsx]
func (h *ReportesHandler) VencimientosExtintores(c *gin.Context) {
	dias := extintorApp.DiasAviso
	if v := c.Query("dias"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.SendBadRequest(c, "invalid dias")
			return
		}
		dias = n
	}

	t, err := h.service.Vencimientos(c.Request.Context(), dias)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}

	if c.Query("format") != "" {
		tablehttp.SendExport(c, t, "vencimientos")
		return
	}
	tablehttp.SendView(c, t)
}
