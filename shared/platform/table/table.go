// Package table implementa el navegador tabular genérico: búsqueda, filtros avanzados,
// ordenamiento y paginación sobre una colección en memoria, más el contrato de
// renderizado de celdas y acciones de fila.
package table

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var (
	ErrColumnNotSortable = errors.New("column is not sortable")
	ErrUnknownAction     = errors.New("unknown action")
	ErrRecordNotFound    = errors.New("record not found")
	ErrNoAddHandler      = errors.New("add handler not configured")
)

// Config es el contrato de entrada de una tabla.
type Config[T any] struct {
	Title   string
	Columns []ColumnSpec[T]
	Filters []FilterConfig[T]
	Actions []ActionSpec[T]

	// SearchKeys son los paths sobre los que busca el texto libre. Vacío = todas las columnas.
	SearchKeys        []string
	SearchPlaceholder string
	ItemsPerPage      int

	// Con EnableAdvancedFilters, OnFilterChange se invoca en cada cambio de búsqueda o filtros.
	EnableAdvancedFilters bool
	OnFilterChange        func(search string, filters Filters)

	InitialFilters  Filters
	PreserveFilters bool
	EmptyMessage    string

	OnAdd    func() error
	OnView   func(T) error
	OnEdit   func(T) error
	OnDelete func(T) error

	// ID identifica un registro; por defecto se resuelve el campo "id".
	ID func(T) string
	// Language define la intercalación de strings al ordenar (español por defecto).
	Language language.Tag
}

// Table es una instancia con estado propio. No es segura para uso concurrente.
type Table[T any] struct {
	cfg   Config[T]
	data  []T
	state State
}

// New crea una tabla vacía con el estado por defecto.
func New[T any](cfg Config[T]) *Table[T] {
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = DefaultPageSize
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = DefaultEmptyMessage
	}
	if cfg.Language == language.Und {
		cfg.Language = language.Spanish
	}
	if cfg.ID == nil {
		cfg.ID = func(record T) string {
			v, _ := Resolve(record, "id")
			return Stringify(v)
		}
	}
	return &Table[T]{cfg: cfg, state: Default(cfg.ItemsPerPage, cfg.InitialFilters)}
}

// Config devuelve la configuración efectiva.
func (t *Table[T]) Config() Config[T] { return t.cfg }

// State devuelve una copia del estado actual.
func (t *Table[T]) State() State { return t.state.Clone() }

// Data devuelve los registros cargados.
func (t *Table[T]) Data() []T { return t.data }

// SetData reemplaza los registros. El estado vuelve a los valores por defecto salvo que
// PreserveFilters esté activo; en ese caso sólo se ajusta la página al nuevo rango.
func (t *Table[T]) SetData(records []T) {
	t.data = records
	if t.cfg.PreserveFilters {
		t.state.Page = ClampPage(t.state.Page, len(t.Filtered()), t.state.PageSize)
		return
	}
	t.state = Default(t.state.PageSize, t.cfg.InitialFilters)
}

// Load carga registros y un estado completo (por ejemplo, el que llega en una query HTTP).
func (t *Table[T]) Load(records []T, st State) error {
	if st.Sort.Active() {
		if _, err := t.sortableColumn(st.Sort.Key); err != nil {
			return err
		}
		if st.Sort.Dir != Desc {
			st.Sort.Dir = Asc
		}
	}
	if st.PageSize <= 0 {
		st.PageSize = t.cfg.ItemsPerPage
	}
	if st.Filters == nil {
		st.Filters = t.cfg.InitialFilters.Clone()
	}
	t.data = records
	t.state = st.Clone()
	t.state.Page = ClampPage(t.state.Page, len(t.Filtered()), t.state.PageSize)
	return nil
}

// SetSearch cambia el texto de búsqueda y vuelve a la primera página.
func (t *Table[T]) SetSearch(search string) {
	t.state.Search = search
	t.state.Page = 0
	t.filterChanged()
}

// SetFilter cambia el valor de un filtro; un valor inerte lo desactiva.
func (t *Table[T]) SetFilter(key string, value any) {
	if t.state.Filters == nil {
		t.state.Filters = Filters{}
	}
	if Inert(value) {
		delete(t.state.Filters, key)
	} else {
		t.state.Filters[key] = value
	}
	t.state.Page = 0
	t.filterChanged()
}

// ClearFilters quita la búsqueda y todos los filtros.
func (t *Table[T]) ClearFilters() {
	t.state.Search = ""
	t.state.Filters = Filters{}
	t.state.Page = 0
	t.filterChanged()
}

// ToggleSort aplica un click sobre la cabecera de la columna key.
func (t *Table[T]) ToggleSort(key string) error {
	if _, err := t.sortableColumn(key); err != nil {
		return err
	}
	t.state.Sort = t.state.Sort.Toggle(key)
	t.state.Page = 0
	return nil
}

// GoToPage navega a index, ajustado al rango válido.
func (t *Table[T]) GoToPage(index int) {
	t.state.Page = ClampPage(index, len(t.Filtered()), t.state.PageSize)
}

// SetPageSize cambia el tamaño de página y vuelve a la primera.
func (t *Table[T]) SetPageSize(size int) {
	if size <= 0 {
		size = t.cfg.ItemsPerPage
	}
	t.state.PageSize = size
	t.state.Page = 0
}

func (t *Table[T]) filterChanged() {
	if t.cfg.EnableAdvancedFilters && t.cfg.OnFilterChange != nil {
		t.cfg.OnFilterChange(t.state.Search, t.state.Filters.Active())
	}
}

func (t *Table[T]) sortableColumn(key string) (ColumnSpec[T], error) {
	for _, c := range t.cfg.Columns {
		if c.Key == key {
			if !c.Sortable {
				break
			}
			return c, nil
		}
	}
	return ColumnSpec[T]{}, fmt.Errorf("%w: %q", ErrColumnNotSortable, key)
}

// searchFields arma los accesores de búsqueda: la columna con la misma key si existe,
// si no el path.
func (t *Table[T]) searchFields() []func(T) (any, bool) {
	keys := t.cfg.SearchKeys
	if len(keys) == 0 {
		for _, c := range t.cfg.Columns {
			keys = append(keys, c.Key)
		}
	}
	fields := make([]func(T) (any, bool), 0, len(keys))
	for _, key := range keys {
		key := key
		accessor := func(record T) (any, bool) { return Resolve(record, key) }
		for _, c := range t.cfg.Columns {
			if c.Key == key && c.Value != nil {
				accessor = c.Value
				break
			}
		}
		fields = append(fields, accessor)
	}
	return fields
}

// Filtered devuelve los registros que pasan búsqueda y filtros, ya ordenados. Sin paginar.
func (t *Table[T]) Filtered() []T {
	fields := t.searchFields()
	out := make([]T, 0, len(t.data))
	for _, r := range t.data {
		if !MatchSearch(t.state.Search, fields, r) {
			continue
		}
		if !MatchFilters(t.cfg.Filters, t.state.Filters, r) {
			continue
		}
		out = append(out, r)
	}

	if !t.state.Sort.Active() {
		return out
	}
	col, err := t.sortableColumn(t.state.Sort.Key)
	if err != nil {
		return out
	}
	return SortRecords(out, t.state.Sort.Dir, col.resolve, t.cfg.Language)
}

// CurrentPage devuelve la página visible de registros.
func (t *Table[T]) CurrentPage() Page[T] {
	return Paginate(t.Filtered(), t.state.PageSize, t.state.Page)
}

// View es la tabla renderizada.
type View struct {
	Title             string          `json:"title,omitempty"`
	Columns           []Header        `json:"columns"`
	Filters           []FilterControl `json:"filters,omitempty"`
	Rows              []Row           `json:"rows"`
	Page              int             `json:"page"` // base 0
	PageSize          int             `json:"page_size"`
	TotalPages        int             `json:"total_pages"`
	Total             int             `json:"total"`
	Search            string          `json:"search"`
	SearchPlaceholder string          `json:"search_placeholder,omitempty"`
	ActiveFilters     Filters         `json:"active_filters,omitempty"`
	Sort              SortState       `json:"sort"`
	Empty             bool            `json:"empty"`
	EmptyMessage      string          `json:"empty_message,omitempty"`
	HasAdd            bool            `json:"has_add"`
}

// View renderiza la página actual. No modifica el estado.
func (t *Table[T]) View() View {
	page := t.CurrentPage()

	v := View{
		Title:             t.cfg.Title,
		Page:              page.Index,
		PageSize:          page.Size,
		TotalPages:        page.TotalPages,
		Total:             page.Total,
		Search:            t.state.Search,
		SearchPlaceholder: t.cfg.SearchPlaceholder,
		ActiveFilters:     t.state.Filters.Active(),
		Sort:              t.state.Sort,
		Empty:             page.Total == 0,
		HasAdd:            t.cfg.OnAdd != nil,
		Rows:              t.Rows(page.Items),
	}
	if v.Empty {
		v.EmptyMessage = t.cfg.EmptyMessage
	}

	for _, c := range t.cfg.Columns {
		h := Header{Key: c.Key, Label: c.Label, Sortable: c.Sortable}
		if t.state.Sort.Key == c.Key {
			h.Sorted = t.state.Sort.Dir
		}
		v.Columns = append(v.Columns, h)
	}
	for _, f := range t.cfg.Filters {
		v.Filters = append(v.Filters, FilterControl{
			Key:         f.Key,
			Label:       f.Label,
			Type:        f.Type,
			Options:     f.Options,
			Placeholder: f.Placeholder,
		})
	}
	return v
}

// Rows renderiza registros con las columnas y acciones configuradas.
func (t *Table[T]) Rows(records []T) []Row {
	actions := t.actions()
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{ID: t.cfg.ID(r), Cells: make([]Cell, 0, len(t.cfg.Columns)), Actions: actions}
		for _, c := range t.cfg.Columns {
			row.Cells = append(row.Cells, c.cell(r))
		}
		rows = append(rows, row)
	}
	return rows
}

// Export devuelve encabezados y celdas de todos los registros filtrados y ordenados.
func (t *Table[T]) Export() ([]string, [][]string) {
	headers := make([]string, 0, len(t.cfg.Columns))
	for _, c := range t.cfg.Columns {
		headers = append(headers, c.Label)
	}
	var records [][]string
	for _, r := range t.Filtered() {
		line := make([]string, 0, len(t.cfg.Columns))
		for _, c := range t.cfg.Columns {
			line = append(line, c.cell(r).Text)
		}
		records = append(records, line)
	}
	return headers, records
}

func (t *Table[T]) actions() []Action {
	var out []Action
	if t.cfg.OnView != nil {
		out = append(out, Action{Name: ActionView, Label: "Ver", Icon: "eye"})
	}
	if t.cfg.OnEdit != nil {
		out = append(out, Action{Name: ActionEdit, Label: "Editar", Icon: "edit"})
	}
	if t.cfg.OnDelete != nil {
		out = append(out, Action{Name: ActionDelete, Label: "Eliminar", Icon: "trash", ClassName: "danger"})
	}
	for _, a := range t.cfg.Actions {
		out = append(out, Action{Name: a.Name, Label: a.Label, Icon: a.Icon, ClassName: a.ClassName})
	}
	return out
}

func (t *Table[T]) handler(name string) (func(T) error, bool) {
	switch name {
	case ActionView:
		return t.cfg.OnView, t.cfg.OnView != nil
	case ActionEdit:
		return t.cfg.OnEdit, t.cfg.OnEdit != nil
	case ActionDelete:
		return t.cfg.OnDelete, t.cfg.OnDelete != nil
	}
	for _, a := range t.cfg.Actions {
		if strings.EqualFold(a.Name, name) && a.OnClick != nil {
			return a.OnClick, true
		}
	}
	return nil, false
}

// Invoke ejecuta la acción name sobre el registro con ese id. No cambia el estado de vista.
func (t *Table[T]) Invoke(name, id string) error {
	fn, ok := t.handler(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	for _, r := range t.data {
		if t.cfg.ID(r) == id {
			return fn(r)
		}
	}
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// Add dispara el alta de un registro nuevo.
func (t *Table[T]) Add() error {
	if t.cfg.OnAdd == nil {
		return ErrNoAddHandler
	}
	return t.cfg.OnAdd()
}
