package domain

import (
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"

	"github.com/google/uuid"
)

type CodigoCriteria struct {
	Codigo string
}

func (c CodigoCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "codigo", Op: sharedDomain.OpILike, Value: "%" + c.Codigo + "%"}}
}

type TipoCriteria struct {
	Tipos []Tipo
}

func (c TipoCriteria) ToConditions() []sharedDomain.Criterion {
	if len(c.Tipos) == 0 {
		return nil
	}
	values := make([]string, len(c.Tipos))
	for i, t := range c.Tipos {
		values[i] = string(t)
	}
	return []sharedDomain.Criterion{{Field: "tipo", Op: sharedDomain.OpIn, Value: values}}
}

type SucursalCriteria struct {
	SucursalID uuid.UUID
}

func (c SucursalCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "sucursal_id", Op: sharedDomain.OpEq, Value: c.SucursalID.String()}}
}

type ActivoCriteria struct {
	Activo bool
}

func (c ActivoCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "activo", Op: sharedDomain.OpEq, Value: c.Activo}}
}

// Vencimiento dentro de [Desde, Hasta]; un extremo cero no restringe.
type VencimientoCriteria struct {
	Desde time.Time
	Hasta time.Time
}

func (c VencimientoCriteria) ToConditions() []sharedDomain.Criterion {
	var conds []sharedDomain.Criterion
	if !c.Desde.IsZero() {
		conds = append(conds, sharedDomain.Criterion{Field: "fecha_vencimiento", Op: sharedDomain.OpGte, Value: c.Desde.UTC()})
	}
	if !c.Hasta.IsZero() {
		conds = append(conds, sharedDomain.Criterion{Field: "fecha_vencimiento", Op: sharedDomain.OpLte, Value: c.Hasta.UTC()})
	}
	return conds
}
