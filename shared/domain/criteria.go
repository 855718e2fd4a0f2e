package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq    Operator = "="
	OpNeq   Operator = "<>"
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpLike  Operator = "LIKE"
	OpILike Operator = "ILIKE"
	OpIn    Operator = "IN"
)

type LogicalOperator string

const (
	OpAnd LogicalOperator = "AND"
	OpOr  LogicalOperator = "OR"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// ---------------- Criteria interface ----------------

// Criteria permite transformar filtros a condiciones neutrales
type Criteria interface {
	ToConditions() []Criterion
}

// Conditions es una lista de condiciones unidas por AND.
type Conditions []Criterion

func (c Conditions) ToConditions() []Criterion { return c }

// ---------------- Composite Criteria ----------------

// CompositeCriteria agrupa criterios con AND u OR.
// ToConditions aplana el árbol y pierde el operador: los repositorios que soportan OR
// recorren Criterias directamente.
type CompositeCriteria struct {
	Operator  LogicalOperator
	Criterias []Criteria
}

func (c CompositeCriteria) ToConditions() []Criterion {
	var all []Criterion
	for _, crit := range c.Criterias {
		all = append(all, crit.ToConditions()...)
	}
	return all
}

// ---------------- Helpers ----------------

// And crea un CompositeCriteria con operador AND
func And(criterias ...Criteria) CompositeCriteria {
	return CompositeCriteria{Operator: OpAnd, Criterias: compact(criterias)}
}

// Or crea un CompositeCriteria con operador OR
func Or(criterias ...Criteria) CompositeCriteria {
	return CompositeCriteria{Operator: OpOr, Criterias: compact(criterias)}
}

// IsEmpty indica si un criterio no restringe nada.
func IsEmpty(c Criteria) bool {
	if c == nil {
		return true
	}
	if comp, ok := c.(CompositeCriteria); ok {
		for _, sub := range comp.Criterias {
			if !IsEmpty(sub) {
				return false
			}
		}
		return true
	}
	return len(c.ToConditions()) == 0
}

func compact(criterias []Criteria) []Criteria {
	out := criterias[:0:0]
	for _, c := range criterias {
		if !IsEmpty(c) {
			out = append(out, c)
		}
	}
	return out
}
