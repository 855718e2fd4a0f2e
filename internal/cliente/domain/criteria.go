package domain

import (
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"

	"github.com/google/uuid"
)

// Filtrado por nombre ILIKE
type NombreLikeCriteria struct {
	Nombre string
}

func (c NombreLikeCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "nombre", Op: sharedDomain.OpILike, Value: "%" + c.Nombre + "%"}}
}

type ActivoCriteria struct {
	Activo bool
}

func (c ActivoCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "activo", Op: sharedDomain.OpEq, Value: c.Activo}}
}

type CUITCriteria struct {
	CUIT string
}

func (c CUITCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "cuit", Op: sharedDomain.OpEq, Value: NormalizeCUIT(c.CUIT)}}
}

// Sucursales de un cliente
type ClienteIDCriteria struct {
	ClienteID uuid.UUID
}

func (c ClienteIDCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "cliente_id", Op: sharedDomain.OpEq, Value: c.ClienteID.String()}}
}

type LocalidadCriteria struct {
	Localidad string
}

func (c LocalidadCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "localidad", Op: sharedDomain.OpILike, Value: "%" + c.Localidad + "%"}}
}
