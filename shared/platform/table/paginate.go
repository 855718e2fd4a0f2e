package table

// DefaultPageSize se usa cuando el llamador no indica tamaño de página.
const DefaultPageSize = 10

// DefaultEmptyMessage se muestra cuando el filtrado no deja registros.
const DefaultEmptyMessage = "No se encontraron registros"

// Page es una porción del conjunto filtrado y ordenado.
type Page[T any] struct {
	Items      []T `json:"items"`
	Index      int `json:"index"` // base 0
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TotalPages calcula ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage ajusta index al rango válido [0, totalPages-1] (0 si no hay registros).
func ClampPage(index, total, size int) int {
	last := TotalPages(total, size) - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return index
}

// Paginate devuelve la página index de records, ajustando index si queda fuera de rango.
func Paginate[T any](records []T, size, index int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(records)
	index = ClampPage(index, total, size)

	start := index * size
	end := start + size
	if end > total {
		end = total
	}

	items := make([]T, 0, end-start)
	items = append(items, records[start:end]...)

	return Page[T]{
		Items:      items,
		Index:      index,
		Size:       size,
		Total:      total,
		TotalPages: TotalPages(total, size),
	}
}

// PageSizer da el tamaño de página por defecto de las tablas de la instalación.
type PageSizer interface {
	ItemsPerPage() int
}

// FixedPageSize es un PageSizer constante.
type FixedPageSize int

func (n FixedPageSize) ItemsPerPage() int { return int(n) }
