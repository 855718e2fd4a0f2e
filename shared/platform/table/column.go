package table

// ColumnSpec define cómo un campo del registro se convierte en una celda.
type ColumnSpec[T any] struct {
	Key      string // path con puntos
	Label    string
	Sortable bool

	// Value es un accesor tipado opcional; si es nil se resuelve Key por reflexión.
	Value func(T) (any, bool)
	// Render arma el texto de la celda; si es nil se usa Stringify sobre el valor.
	Render func(value any, record T) string
}

func (c ColumnSpec[T]) resolve(record T) (any, bool) {
	if c.Value != nil {
		return c.Value(record)
	}
	return Resolve(record, c.Key)
}

func (c ColumnSpec[T]) cell(record T) Cell {
	v, ok := c.resolve(record)
	if !ok {
		v = nil
	}
	text := Stringify(v)
	if c.Render != nil {
		text = c.Render(v, record)
	}
	return Cell{Key: c.Key, Text: text}
}

// Cell es una celda ya renderizada.
type Cell struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Nombres de las acciones incorporadas, conectadas a OnView, OnEdit y OnDelete.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// ActionSpec es una operación de fila. OnClick recibe el registro y no toca el estado de la tabla.
type ActionSpec[T any] struct {
	Name      string
	Label     string
	Icon      string
	ClassName string
	OnClick   func(T) error
}

// Action es la representación de una acción dentro de una fila.
type Action struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Icon      string `json:"icon,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// Row es una fila visible.
type Row struct {
	ID      string   `json:"id"`
	Cells   []Cell   `json:"cells"`
	Actions []Action `json:"actions,omitempty"`
}

// Header describe una columna en la vista.
type Header struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Sortable bool      `json:"sortable"`
	Sorted   Direction `json:"sorted,omitempty"`
}

// FilterControl describe un filtro avanzado en la vista.
type FilterControl struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Type        FilterType `json:"type"`
	Options     []Option   `json:"options,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
}
