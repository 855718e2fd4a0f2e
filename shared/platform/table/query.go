package table

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidQuery = errors.New("invalid table query")

// Parámetros de query reconocidos.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamPage     = "page" // base 1
	ParamPageSize = "page_size"
)

// ParseQuery arma un State a partir de la query HTTP:
// q, sort, dir, page, page_size, filter[key]=v, filter[key][from], filter[key][to].
// Los filtros boolean se convierten a bool y los daterange a DateRange.
func ParseQuery[T any](q url.Values, configs []FilterConfig[T]) (State, error) {
	st := State{
		Search:  strings.TrimSpace(q.Get(ParamSearch)),
		Filters: Filters{},
	}

	if key := q.Get(ParamSort); key != "" {
		st.Sort = SortState{Key: key, Dir: Asc}
		switch strings.ToLower(q.Get(ParamDir)) {
		case "", string(Asc):
		case string(Desc):
			st.Sort.Dir = Desc
		default:
			return State{}, fmt.Errorf("%w: dir %q", ErrInvalidQuery, q.Get(ParamDir))
		}
	}

	if p := q.Get(ParamPage); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return State{}, fmt.Errorf("%w: page %q", ErrInvalidQuery, p)
		}
		st.Page = n - 1
	}
	if p := q.Get(ParamPageSize); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return State{}, fmt.Errorf("%w: page_size %q", ErrInvalidQuery, p)
		}
		st.PageSize = n
	}

	for param, values := range q {
		key, bound, ok := filterParam(param)
		if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		raw := strings.TrimSpace(values[0])
		cfg, _ := findFilter(configs, key)

		if cfg.Type == FilterDateRange || bound != "" {
			r, _ := st.Filters[key].(DateRange)
			t, ok := parseTime(raw)
			if !ok {
				return State{}, fmt.Errorf("%w: fecha %q en %s", ErrInvalidQuery, raw, param)
			}
			switch bound {
			case "from":
				r.From = &t
			case "to":
				r.To = &t
			default:
				// filter[key]=fecha equivale a un único día
				r.From, r.To = &t, &t
			}
			st.Filters[key] = r
			continue
		}

		if cfg.Type == FilterBoolean {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return State{}, fmt.Errorf("%w: booleano %q en %s", ErrInvalidQuery, raw, param)
			}
			st.Filters[key] = b
			continue
		}
		st.Filters[key] = raw
	}

	return st, nil
}

// filterParam separa "filter[key]" y "filter[key][from]".
func filterParam(param string) (key, bound string, ok bool) {
	rest, found := strings.CutPrefix(param, "filter[")
	if !found {
		return "", "", false
	}
	key, rest, found = strings.Cut(rest, "]")
	if !found || key == "" {
		return "", "", false
	}
	switch rest {
	case "":
		return key, "", true
	case "[from]":
		return key, "from", true
	case "[to]":
		return key, "to", true
	default:
		return "", "", false
	}
}

// Values es la operación inversa de ParseQuery (page en base 1).
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.Sort.Active() {
		q.Set(ParamSort, s.Sort.Key)
		q.Set(ParamDir, string(s.Sort.Dir))
	}
	if s.Page > 0 {
		q.Set(ParamPage, strconv.Itoa(s.Page+1))
	}
	if s.PageSize > 0 {
		q.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	for key, v := range s.Filters.Active() {
		switch x := v.(type) {
		case DateRange:
			if x.From != nil {
				q.Set("filter["+key+"][from]", x.From.Format(DateLayout))
			}
			if x.To != nil {
				q.Set("filter["+key+"][to]", x.To.Format(DateLayout))
			}
		case bool:
			q.Set("filter["+key+"]", strconv.FormatBool(x))
		default:
			q.Set("filter["+key+"]", Stringify(v))
		}
	}
	return q
}
