package table

import (
	"strings"
	"time"
)

// FilterType indica cómo se evalúa un filtro avanzado.
type FilterType string

const (
	FilterText      FilterType = "text"
	FilterSelect    FilterType = "select"
	FilterBoolean   FilterType = "boolean"
	FilterDateRange FilterType = "daterange"
)

// Option es una opción de un filtro select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterConfig describe un control de filtro avanzado y el campo (quizás anidado) que restringe.
type FilterConfig[T any] struct {
	Key         string
	Label       string
	Type        FilterType
	Options     []Option
	NestedKey   string // path con puntos, tiene prioridad sobre Key para resolver el valor
	Placeholder string

	// Column es la columna de base de datos para filtrar del lado del servidor (ver ToCriteria).
	Column string

	// Value es un accesor tipado; si está definido no se usa el path.
	Value func(T) (any, bool)
}

// Path devuelve el path efectivo del filtro.
func (f FilterConfig[T]) Path() string {
	if f.NestedKey != "" {
		return f.NestedKey
	}
	return f.Key
}

func (f FilterConfig[T]) resolve(record T) (any, bool) {
	if f.Value != nil {
		return f.Value(record)
	}
	return Resolve(record, f.Path())
}

// DateRange es el valor de un filtro daterange. Un extremo nil no limita ese lado.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains indica si t cae en [From, To]. Un To a medianoche cubre el día completo.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil {
		if t.After(endOfDay(*r.To)) {
			return false
		}
	}
	return true
}

// Filters mapea la key de cada filtro a su valor actual.
// Valores admitidos: string, bool, números, DateRange (o *DateRange).
type Filters map[string]any

// Clone devuelve una copia superficial; nil se mantiene como mapa vacío.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Active devuelve sólo los filtros que restringen algo.
func (f Filters) Active() Filters {
	out := Filters{}
	for k, v := range f {
		if !Inert(v) {
			out[k] = v
		}
	}
	return out
}

// Inert indica si un valor de filtro no restringe (vacío o sin definir).
func Inert(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case DateRange:
		return x.From == nil && x.To == nil
	case *DateRange:
		return x == nil || (x.From == nil && x.To == nil)
	case []string:
		return len(x) == 0
	default:
		return false
	}
}

// matchFilter evalúa un valor de filtro contra un registro según el tipo configurado.
// Un campo que no se puede resolver nunca coincide.
func matchFilter[T any](cfg FilterConfig[T], want any, record T) bool {
	got, ok := cfg.resolve(record)
	if !ok {
		return false
	}

	switch cfg.Type {
	case FilterText:
		return containsFolded(Stringify(got), Stringify(want))
	case FilterBoolean:
		w, okW := toBool(want)
		g, okG := toBool(got)
		return okW && okG && w == g
	case FilterDateRange:
		r, okR := want.(DateRange)
		if p, isPtr := want.(*DateRange); isPtr && p != nil {
			r, okR = *p, true
		}
		t, okT := toTime(got)
		return okR && okT && r.Contains(t)
	default:
		return canonical(got) == canonical(want)
	}
}

// MatchFilters aplica todos los filtros activos (AND, independiente del orden).
// Las keys sin FilterConfig se evalúan sobre el path de la key: como daterange si el
// valor es un DateRange, como select en otro caso.
func MatchFilters[T any](configs []FilterConfig[T], filters Filters, record T) bool {
	for key, want := range filters {
		if Inert(want) {
			continue
		}
		cfg, ok := findFilter(configs, key)
		if !ok {
			cfg = FilterConfig[T]{Key: key, Type: inferType(want)}
		}
		if !matchFilter(cfg, want, record) {
			return false
		}
	}
	return true
}

// MatchSearch es la búsqueda libre: coincide si algún campo contiene el texto.
func MatchSearch[T any](search string, fields []func(T) (any, bool), record T) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	for _, field := range fields {
		v, ok := field(record)
		if ok && containsFolded(Stringify(v), search) {
			return true
		}
	}
	return false
}

func inferType(v any) FilterType {
	switch v.(type) {
	case DateRange, *DateRange:
		return FilterDateRange
	}
	return FilterSelect
}

func findFilter[T any](configs []FilterConfig[T], key string) (FilterConfig[T], bool) {
	for _, c := range configs {
		if c.Key == key {
			return c, true
		}
	}
	return FilterConfig[T]{}, false
}
