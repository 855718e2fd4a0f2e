package http

import (
	"context"
	"net/http"
	"time"

	"github.com/davicafu/matafuegos/internal/tarea/application"
	"github.com/davicafu/matafuegos/internal/tarea/domain"
	"github.com/davicafu/matafuegos/pkg/utils"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table/tablehttp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errorMapping = tablehttp.Merge(utils.ErrorMapping{
	domain.ErrTareaNotFound:       http.StatusNotFound,
	domain.ErrTareaAlreadyExists:  http.StatusConflict,
	domain.ErrInvalidTarea:        http.StatusBadRequest,
	domain.ErrTareaCannotComplete: http.StatusConflict,
})

// TareaHandler encapsula los endpoints HTTP relacionados con Tarea.
type TareaHandler struct {
	service *application.TareaService
}

func NewTareaHandler(service *application.TareaService) *TareaHandler {
	return &TareaHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// --- Handlers CRUD ---

// CreateTarea endpoint POST /tareas
func (h *TareaHandler) CreateTarea(c *gin.Context) {
	var in application.CreateTareaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	t, err := h.service.CreateTarea(c.Request.Context(), in)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, t)
}

// GetTarea endpoint GET /tareas/:id
func (h *TareaHandler) GetTarea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.service.GetTarea(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, t)
}

// UpdateTarea endpoint PUT /tareas/:id
func (h *TareaHandler) UpdateTarea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	// Usamos punteros para que los campos sean opcionales en el JSON
	var in application.UpdateTareaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	t, err := h.service.UpdateTarea(c.Request.Context(), id, in)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, t)
}

// DeleteTarea endpoint DELETE /tareas/:id
func (h *TareaHandler) DeleteTarea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTarea(c.Request.Context(), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteTarea endpoint POST /tareas/:id/completar
func (h *TareaHandler) CompleteTarea(c *gin.Context) {
	h.transition(c, h.service.CompleteTarea)
}

// FailTarea endpoint POST /tareas/:id/fallar
func (h *TareaHandler) FailTarea(c *gin.Context) {
	h.transition(c, h.service.FailTarea)
}

func (h *TareaHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.Tarea, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := fn(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, t)
}

// --- Listados ---

// ListTareas endpoint GET /tareas?estado=&tipo=&asignado_id=&sucursal_id=&titulo=&created_from=&created_to=
func (h *TareaHandler) ListTareas(c *gin.Context) {
	var criterias []sharedDomain.Criteria
	if raw := c.Query("estado"); raw != "" {
		estado, err := domain.ParseEstado(raw)
		if err != nil {
			utils.SendBadRequest(c, err.Error())
			return
		}
		criterias = append(criterias, domain.EstadoCriteria{Estado: estado})
	}
	if raw := c.Query("tipo"); raw != "" {
		tipo, err := domain.ParseTipo(raw)
		if err != nil {
			utils.SendBadRequest(c, err.Error())
			return
		}
		criterias = append(criterias, domain.TipoCriteria{Tipo: tipo})
	}
	if raw := c.Query("asignado_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid asignado_id")
			return
		}
		criterias = append(criterias, domain.AsignadoCriteria{ID: id})
	}
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid sucursal_id")
			return
		}
		criterias = append(criterias, domain.SucursalCriteria{SucursalID: id})
	}
	if titulo := c.Query("titulo"); titulo != "" {
		criterias = append(criterias, domain.TituloLikeCriteria{Titulo: titulo})
	}

	var created domain.CreatedAtRangeCriteria
	for param, dst := range map[string]**time.Time{"created_from": &created.Start, "created_to": &created.End} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid "+param+", use RFC3339")
			return
		}
		*dst = &t
	}
	if created.Start != nil || created.End != nil {
		criterias = append(criterias, created)
	}

	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "created_at", Desc: true}, 50)
	list, err := h.service.ListTareas(c.Request.Context(), sharedDomain.And(criterias...), pagination, sort)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, list)
}

// ListByAsignado endpoint GET /tareas/asignado/:id?estado=pendiente|completada
func (h *TareaHandler) ListByAsignado(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "created_at"}, 50)

	var (
		list []*domain.Tarea
		err  error
	)
	switch c.DefaultQuery("estado", string(domain.EstadoPendiente)) {
	case string(domain.EstadoPendiente):
		list, err = h.service.ListPendingForUser(c.Request.Context(), id, pagination, sort)
	case string(domain.EstadoCompletada):
		list, err = h.service.ListCompletedForUser(c.Request.Context(), id, pagination, sort)
	default:
		utils.SendBadRequest(c, "estado must be pendiente or completada")
		return
	}
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, list)
}

// TableTareas endpoint GET /tareas/table
func (h *TareaHandler) TableTareas(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.TareaFilters())
	if !ok {
		return
	}
	t, err := h.service.TableTareas(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendView(c, t)
}

// ExportTareas endpoint GET /tareas/export?format=csv|xlsx
func (h *TareaHandler) ExportTareas(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.TareaFilters())
	if !ok {
		return
	}
	t, err := h.service.TableTareas(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendExport(c, t, "tareas")
}

// InvokeTarea endpoint POST /tareas/actions/:action/:id
func (h *TareaHandler) InvokeTarea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.InvokeTarea(c.Request.Context(), c.Param("action"), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}
