package query

import (
	"net/url"
	"strconv"
)

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Page arma un OffsetPagination desde un índice de página base 0.
func Page(index, size int) OffsetPagination {
	if index < 0 {
		index = 0
	}
	return OffsetPagination{Limit: size, Offset: index * size}
}

// CursorPagination para paginación tipo cursor
type CursorPagination struct {
	Limit     int
	Cursor    string // puede ser un timestamp o UUID serializado
	SortField string
	SortDesc  bool
}

// Interfaz genérica para paginación. nil = sin límite.
type Pagination interface{}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "created_at", "nombre", "codigo"
	Desc  bool
}

// Direction devuelve el sufijo ORDER BY.
func Direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}

// FromValues lee sort_field, sort_desc, limit, offset y cursor de una query HTTP.
// Sin limit se usa defaultLimit; con cursor la paginación es por cursor.
func FromValues(q url.Values, def Sort, defaultLimit int) (Pagination, Sort) {
	sort := def
	if f := q.Get("sort_field"); f != "" {
		sort = Sort{Field: f, Desc: q.Get("sort_desc") == "true"}
	}

	limit := defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	if cursor := q.Get("cursor"); cursor != "" {
		return CursorPagination{Limit: limit, Cursor: cursor, SortField: sort.Field, SortDesc: sort.Desc}, sort
	}

	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return OffsetPagination{Limit: limit, Offset: offset}, sort
}
