package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/davicafu/matafuegos/internal/extintor/application"
	"github.com/davicafu/matafuegos/internal/extintor/domain"
	"github.com/davicafu/matafuegos/pkg/utils"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table/tablehttp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorMapping se comparte con los reportes de vencimientos.
var ErrorMapping = tablehttp.Merge(utils.ErrorMapping{
	domain.ErrExtintorNotFound: http.StatusNotFound,
	domain.ErrSucursalNotFound: http.StatusNotFound,
	domain.ErrInvalidExtintor:  http.StatusBadRequest,
})

type ExtintorHandler struct {
	service *application.ExtintorService
}

func NewExtintorHandler(service *application.ExtintorService) *ExtintorHandler {
	return &ExtintorHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateExtintor endpoint POST /extintores
func (h *ExtintorHandler) CreateExtintor(c *gin.Context) {
	var req application.CreateExtintorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	e, err := h.service.CreateExtintor(c.Request.Context(), req)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, e)
}

// GetExtintor endpoint GET /extintores/:id
func (h *ExtintorHandler) GetExtintor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.service.GetExtintor(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, e)
}

// UpdateExtintor endpoint PUT /extintores/:id
func (h *ExtintorHandler) UpdateExtintor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req application.UpdateExtintorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	e, err := h.service.UpdateExtintor(c.Request.Context(), id, req)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, e)
}

// DeleteExtintor endpoint DELETE /extintores/:id
func (h *ExtintorHandler) DeleteExtintor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteExtintor(c.Request.Context(), id); err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recargar endpoint POST /extintores/:id/recargar
func (h *ExtintorHandler) Recargar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.service.Recargar(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, e)
}

// ListExtintores endpoint GET /extintores?codigo=&tipo=ABC,CO2&sucursal_id=&activo=
func (h *ExtintorHandler) ListExtintores(c *gin.Context) {
	var criterias []sharedDomain.Criteria
	if codigo := c.Query("codigo"); codigo != "" {
		criterias = append(criterias, domain.CodigoCriteria{Codigo: codigo})
	}
	if raw := c.Query("tipo"); raw != "" {
		var tipos []domain.Tipo
		for _, part := range strings.Split(raw, ",") {
			tipo, err := domain.ParseTipo(part)
			if err != nil {
				utils.SendBadRequest(c, err.Error())
				return
			}
			tipos = append(tipos, tipo)
		}
		criterias = append(criterias, domain.TipoCriteria{Tipos: tipos})
	}
	if sid, err := uuid.Parse(c.Query("sucursal_id")); err == nil {
		criterias = append(criterias, domain.SucursalCriteria{SucursalID: sid})
	}
	if activo, err := strconv.ParseBool(c.Query("activo")); err == nil {
		criterias = append(criterias, domain.ActivoCriteria{Activo: activo})
	}

	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "codigo"}, 50)
	list, err := h.service.ListExtintores(c.Request.Context(), sharedDomain.And(criterias...), pagination, sort)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, list)
}

// TableExtintores endpoint GET /extintores/table
func (h *ExtintorHandler) TableExtintores(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, h.service.ExtintorFilters())
	if !ok {
		return
	}
	t, err := h.service.TableExtintores(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	tablehttp.SendView(c, t)
}

// ExportExtintores endpoint GET /extintores/export?format=csv|xlsx
func (h *ExtintorHandler) ExportExtintores(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, h.service.ExtintorFilters())
	if !ok {
		return
	}
	t, err := h.service.TableExtintores(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	tablehttp.SendExport(c, t, "extintores")
}

// InvokeExtintor endpoint POST /extintores/actions/:action/:id
func (h *ExtintorHandler) InvokeExtintor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.InvokeExtintor(c.Request.Context(), c.Param("action"), id); err != nil {
		utils.SendMappedError(c, err, ErrorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}
