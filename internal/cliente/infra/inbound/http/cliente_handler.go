package http

import (
	"net/http"
	"strconv"

	"github.com/davicafu/matafuegos/internal/cliente/application"
	"github.com/davicafu/matafuegos/internal/cliente/domain"
	"github.com/davicafu/matafuegos/pkg/utils"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table/tablehttp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errorMapping = tablehttp.Merge(utils.ErrorMapping{
	domain.ErrClienteNotFound:  http.StatusNotFound,
	domain.ErrSucursalNotFound: http.StatusNotFound,
	domain.ErrInvalidCliente:   http.StatusBadRequest,
	domain.ErrInvalidSucursal:  http.StatusBadRequest,
})

// ClienteHandler encapsula los endpoints HTTP de clientes y sucursales.
type ClienteHandler struct {
	service *application.ClienteService
}

func NewClienteHandler(service *application.ClienteService) *ClienteHandler {
	return &ClienteHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// ---------------- Clientes ----------------

// CreateCliente endpoint POST /clientes
func (h *ClienteHandler) CreateCliente(c *gin.Context) {
	var req application.CreateClienteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cliente, err := h.service.CreateCliente(c.Request.Context(), req)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, cliente)
}

// GetCliente endpoint GET /clientes/:id
func (h *ClienteHandler) GetCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cliente, err := h.service.GetCliente(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, cliente)
}

// UpdateCliente endpoint PUT /clientes/:id
func (h *ClienteHandler) UpdateCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Punteros para que los campos sean opcionales en el JSON
	var req struct {
		Nombre   *string `json:"nombre,omitempty"`
		CUIT     *string `json:"cuit,omitempty"`
		Email    *string `json:"email,omitempty"`
		Telefono *string `json:"telefono,omitempty"`
		Activo   *bool   `json:"activo,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cliente, err := h.service.GetCliente(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	if req.Nombre != nil {
		cliente.Nombre = *req.Nombre
	}
	if req.CUIT != nil {
		cliente.CUIT = *req.CUIT
	}
	if req.Email != nil {
		cliente.Email = *req.Email
	}
	if req.Telefono != nil {
		cliente.Telefono = *req.Telefono
	}
	if req.Activo != nil {
		cliente.Activo = *req.Activo
	}

	if err := h.service.UpdateCliente(c.Request.Context(), cliente); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, cliente)
}

// DeleteCliente endpoint DELETE /clientes/:id
func (h *ClienteHandler) DeleteCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCliente(c.Request.Context(), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListClientes endpoint GET /clientes?nombre=&cuit=&activo=&sort_field=&limit=&offset=
func (h *ClienteHandler) ListClientes(c *gin.Context) {
	var criterias []sharedDomain.Criteria
	if nombre := c.Query("nombre"); nombre != "" {
		criterias = append(criterias, domain.NombreLikeCriteria{Nombre: nombre})
	}
	if cuit := c.Query("cuit"); cuit != "" {
		criterias = append(criterias, domain.CUITCriteria{CUIT: cuit})
	}
	if activo, err := strconv.ParseBool(c.Query("activo")); err == nil {
		criterias = append(criterias, domain.ActivoCriteria{Activo: activo})
	}

	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "nombre"}, 50)
	clientes, err := h.service.ListClientes(c.Request.Context(), sharedDomain.And(criterias...), pagination, sort)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, clientes)
}

// TableClientes endpoint GET /clientes/table
func (h *ClienteHandler) TableClientes(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.ClienteFilters())
	if !ok {
		return
	}
	t, err := h.service.TableClientes(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendView(c, t)
}

// ExportClientes endpoint GET /clientes/export?format=csv|xlsx
func (h *ClienteHandler) ExportClientes(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.ClienteFilters())
	if !ok {
		return
	}
	t, err := h.service.TableClientes(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendExport(c, t, "clientes")
}

// InvokeCliente endpoint POST /clientes/actions/:action/:id
func (h *ClienteHandler) InvokeCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.InvokeCliente(c.Request.Context(), c.Param("action"), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------------- Sucursales ----------------

// CreateSucursal endpoint POST /sucursales
func (h *ClienteHandler) CreateSucursal(c *gin.Context) {
	var req application.CreateSucursalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	suc, err := h.service.CreateSucursal(c.Request.Context(), req)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, suc)
}

// GetSucursal endpoint GET /sucursales/:id
func (h *ClienteHandler) GetSucursal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	suc, err := h.service.GetSucursal(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, suc)
}

// ListSucursales endpoint GET /sucursales?cliente_id=&localidad=
func (h *ClienteHandler) ListSucursales(c *gin.Context) {
	var criterias []sharedDomain.Criteria
	if cid, err := uuid.Parse(c.Query("cliente_id")); err == nil {
		criterias = append(criterias, domain.ClienteIDCriteria{ClienteID: cid})
	}
	if localidad := c.Query("localidad"); localidad != "" {
		criterias = append(criterias, domain.LocalidadCriteria{Localidad: localidad})
	}

	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "nombre"}, 50)
	list, err := h.service.ListSucursales(c.Request.Context(), sharedDomain.And(criterias...), pagination, sort)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, list)
}

// TableSucursales endpoint GET /sucursales/table
func (h *ClienteHandler) TableSucursales(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.SucursalFilters())
	if !ok {
		return
	}
	t, err := h.service.TableSucursales(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendView(c, t)
}

// ExportSucursales endpoint GET /sucursales/export
func (h *ClienteHandler) ExportSucursales(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.SucursalFilters())
	if !ok {
		return
	}
	t, err := h.service.TableSucursales(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendExport(c, t, "sucursales")
}
