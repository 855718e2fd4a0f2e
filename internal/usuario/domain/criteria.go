package domain

import (
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
)

// Filtrado por email exacto
type EmailCriteria struct {
	Email string
}

func (c EmailCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "email", Op: sharedDomain.OpEq, Value: c.Email}}
}

// Filtrado por nombre ILIKE
type NombreLikeCriteria struct {
	Nombre string
}

func (c NombreLikeCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "nombre", Op: sharedDomain.OpILike, Value: "%" + c.Nombre + "%"}}
}

type RolCriteria struct {
	Roles []Rol
}

func (c RolCriteria) ToConditions() []sharedDomain.Criterion {
	vals := make([]string, len(c.Roles))
	for i, r := range c.Roles {
		vals[i] = string(r)
	}
	return []sharedDomain.Criterion{{Field: "rol", Op: sharedDomain.OpIn, Value: vals}}
}

type ActivoCriteria struct {
	Activo bool
}

func (c ActivoCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "activo", Op: sharedDomain.OpEq, Value: c.Activo}}
}

// Filtrado por rango de edad, calculado sobre birth_date.
type AgeRangeCriteria struct {
	Min *int
	Max *int
	Now time.Time
}

func (c AgeRangeCriteria) ToConditions() []sharedDomain.Criterion {
	now := c.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var conds []sharedDomain.Criterion
	if c.Min != nil {
		conds = append(conds, sharedDomain.Criterion{
			Field: "birth_date",
			Op:    sharedDomain.OpLte,
			Value: now.AddDate(-*c.Min, 0, 0),
		})
	}
	if c.Max != nil {
		// Quien tiene Max años nació hace menos de Max+1.
		conds = append(conds, sharedDomain.Criterion{
			Field: "birth_date",
			Op:    sharedDomain.OpGt,
			Value: now.AddDate(-*c.Max-1, 0, 0),
		})
	}
	return conds
}
