package table

import (
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
)

// ToCriteria traduce los filtros activos con Column definida a criterios neutrales para
// filtrar del lado del repositorio. Sólo se traducen select, boolean y daterange; los de
// texto (plegado de acentos) y los sin columna quedan en rest y se aplican en memoria.
func ToCriteria[T any](configs []FilterConfig[T], filters Filters) (crit sharedDomain.Criteria, rest Filters) {
	rest = Filters{}
	var conds sharedDomain.Conditions

	for key, v := range filters.Active() {
		cfg, ok := findFilter(configs, key)
		if !ok || cfg.Column == "" {
			rest[key] = v
			continue
		}
		c, ok := filterConditions(cfg, v)
		if !ok {
			rest[key] = v
			continue
		}
		conds = append(conds, c...)
	}
	return conds, rest
}

func filterConditions[T any](cfg FilterConfig[T], v any) ([]sharedDomain.Criterion, bool) {
	switch cfg.Type {
	case FilterText:
		return nil, false
	case FilterBoolean:
		b, ok := toBool(v)
		if !ok {
			return nil, false
		}
		return []sharedDomain.Criterion{{Field: cfg.Column, Op: sharedDomain.OpEq, Value: b}}, true
	case FilterDateRange:
		r, ok := v.(DateRange)
		if p, isPtr := v.(*DateRange); isPtr && p != nil {
			r, ok = *p, true
		}
		if !ok {
			return nil, false
		}
		var out []sharedDomain.Criterion
		if r.From != nil {
			out = append(out, sharedDomain.Criterion{Field: cfg.Column, Op: sharedDomain.OpGte, Value: *r.From})
		}
		if r.To != nil {
			out = append(out, sharedDomain.Criterion{Field: cfg.Column, Op: sharedDomain.OpLte, Value: endOfDay(*r.To)})
		}
		return out, true
	default:
		return []sharedDomain.Criterion{{Field: cfg.Column, Op: sharedDomain.OpEq, Value: canonical(v)}}, true
	}
}

func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t
}
