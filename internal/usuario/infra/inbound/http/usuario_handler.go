package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davicafu/matafuegos/internal/usuario/application"
	"github.com/davicafu/matafuegos/internal/usuario/domain"
	"github.com/davicafu/matafuegos/pkg/utils"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table/tablehttp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errorMapping = tablehttp.Merge(utils.ErrorMapping{
	domain.ErrUsuarioNotFound:      http.StatusNotFound,
	domain.ErrUsuarioAlreadyExists: http.StatusConflict,
	domain.ErrInvalidUsuario:       http.StatusBadRequest,
})

// UsuarioHandler encapsula los endpoints HTTP relacionados con Usuario
type UsuarioHandler struct {
	service *application.UsuarioService
}

func NewUsuarioHandler(service *application.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid usuario id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateUsuario endpoint POST /usuarios
func (h *UsuarioHandler) CreateUsuario(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Nombre    string `json:"nombre" binding:"required"`
		Rol       string `json:"rol" binding:"required"`
		BirthDate string `json:"birth_date"` // ISO8601, ej: 2000-01-01
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	in := application.CreateUsuarioInput{Email: req.Email, Nombre: req.Nombre, Rol: req.Rol}
	if req.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			utils.SendBadRequest(c, "invalid birth_date format, use YYYY-MM-DD")
			return
		}
		in.BirthDate = bd
	}

	u, err := h.service.CreateUsuario(c.Request.Context(), in)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, u)
}

// GetUsuario endpoint GET /usuarios/:id
func (h *UsuarioHandler) GetUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.GetUsuario(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// UpdateUsuario endpoint PUT /usuarios/:id
func (h *UsuarioHandler) UpdateUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Email     *string `json:"email,omitempty"`
		Nombre    *string `json:"nombre,omitempty"`
		Rol       *string `json:"rol,omitempty"`
		Activo    *bool   `json:"activo,omitempty"`
		BirthDate *string `json:"birth_date,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	in := application.UpdateUsuarioInput{Email: req.Email, Nombre: req.Nombre, Rol: req.Rol, Activo: req.Activo}
	if req.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			utils.SendBadRequest(c, "invalid birth_date format")
			return
		}
		in.BirthDate = &bd
	}

	u, err := h.service.UpdateUsuario(c.Request.Context(), id, in)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// DeleteUsuario endpoint DELETE /usuarios/:id
func (h *UsuarioHandler) DeleteUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUsuario(c.Request.Context(), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsuarios endpoint GET /usuarios?nombre=&email=&rol=tecnico,admin&activo=&min_age=&max_age=
func (h *UsuarioHandler) ListUsuarios(c *gin.Context) {
	var criterias []sharedDomain.Criteria
	if nombre := c.Query("nombre"); nombre != "" {
		criterias = append(criterias, domain.NombreLikeCriteria{Nombre: nombre})
	}
	if email := c.Query("email"); email != "" {
		criterias = append(criterias, domain.EmailCriteria{Email: strings.ToLower(email)})
	}
	if raw := c.Query("rol"); raw != "" {
		var roles []domain.Rol
		for _, part := range strings.Split(raw, ",") {
			rol, err := domain.ParseRol(part)
			if err != nil {
				utils.SendBadRequest(c, err.Error())
				return
			}
			roles = append(roles, rol)
		}
		criterias = append(criterias, domain.RolCriteria{Roles: roles})
	}
	if activo, err := strconv.ParseBool(c.Query("activo")); err == nil {
		criterias = append(criterias, domain.ActivoCriteria{Activo: activo})
	}

	var ages domain.AgeRangeCriteria
	for param, dst := range map[string]**int{"min_age": &ages.Min, "max_age": &ages.Max} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid "+param)
			return
		}
		*dst = &n
	}
	if ages.Min != nil || ages.Max != nil {
		criterias = append(criterias, ages)
	}

	pagination, sort := sharedQuery.FromValues(c.Request.URL.Query(), sharedQuery.Sort{Field: "nombre"}, 50)
	list, err := h.service.ListUsuarios(c.Request.Context(), sharedDomain.And(criterias...), pagination, sort)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, list)
}

// TableUsuarios endpoint GET /usuarios/table
func (h *UsuarioHandler) TableUsuarios(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.UsuarioFilters())
	if !ok {
		return
	}
	t, err := h.service.TableUsuarios(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendView(c, t)
}

// ExportUsuarios endpoint GET /usuarios/export?format=csv|xlsx
func (h *UsuarioHandler) ExportUsuarios(c *gin.Context) {
	st, ok := tablehttp.ParseState(c, application.UsuarioFilters())
	if !ok {
		return
	}
	t, err := h.service.TableUsuarios(c.Request.Context(), st)
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	tablehttp.SendExport(c, t, "usuarios")
}

// InvokeUsuario endpoint POST /usuarios/actions/:action/:id
func (h *UsuarioHandler) InvokeUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.InvokeUsuario(c.Request.Context(), c.Param("action"), id); err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	c.Status(http.StatusNoContent)
}
