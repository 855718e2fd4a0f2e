package domain

import (
	"time"

	shared "github.com/davicafu/matafuegos/shared/domain"
	"github.com/google/uuid"
)

// EstadoCriteria busca tareas por su estado.
type EstadoCriteria struct {
	Estado Estado
}

func (c EstadoCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "estado", Op: shared.OpEq, Value: string(c.Estado)}}
}

// AsignadoCriteria busca tareas asignadas a un usuario.
type AsignadoCriteria struct {
	ID uuid.UUID
}

func (c AsignadoCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "asignado_id", Op: shared.OpEq, Value: c.ID.String()}}
}

type TipoCriteria struct {
	Tipo Tipo
}

func (c TipoCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "tipo", Op: shared.OpEq, Value: string(c.Tipo)}}
}

type SucursalCriteria struct {
	SucursalID uuid.UUID
}

func (c SucursalCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "sucursal_id", Op: shared.OpEq, Value: c.SucursalID.String()}}
}

// TituloLikeCriteria busca tareas cuyo título contenga un texto.
type TituloLikeCriteria struct {
	Titulo string
}

func (c TituloLikeCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "titulo", Op: shared.OpILike, Value: "%" + c.Titulo + "%"}}
}

// CreatedAtRangeCriteria busca tareas creadas en un rango; los extremos son opcionales.
type CreatedAtRangeCriteria struct {
	Start *time.Time
	End   *time.Time
}

func (c CreatedAtRangeCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Start != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpGte, Value: *c.Start})
	}
	if c.End != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpLte, Value: *c.End})
	}
	return conds
}
