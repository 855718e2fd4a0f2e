package table

// State es el estado de vista de una tabla.
type State struct {
	Search   string    `json:"search"`
	Filters  Filters   `json:"filters"`
	Sort     SortState `json:"sort"`
	Page     int       `json:"page"` // base 0
	PageSize int       `json:"page_size"`
}

// Clone copia el estado sin compartir el mapa de filtros.
func (s State) Clone() State {
	s.Filters = s.Filters.Clone()
	return s
}

// Default es el estado inicial: sin búsqueda ni orden, primera página.
func Default(pageSize int, initial Filters) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Filters: initial.Clone(), PageSize: pageSize}
}
