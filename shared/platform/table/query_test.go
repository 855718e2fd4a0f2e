package table

import (
	"net/url"
	"testing"
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queryFilters = []FilterConfig[*extintorFx]{
	{Key: "activo", Type: FilterBoolean, Column: "activo"},
	{Key: "vencimiento", Type: FilterDateRange, Column: "fecha_vencimiento"},
	{Key: "codigo", Type: FilterText, Column: "codigo"},
	{Key: "tipo", Type: FilterSelect, Column: "tipo"},
	{Key: "sucursal", NestedKey: "sucursal.nombre", Type: FilterSelect},
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		"q":                          {" acme "},
		"sort":                       {"codigo"},
		"dir":                        {"DESC"},
		"page":                       {"2"},
		"page_size":                  {"25"},
		"filter[activo]":             {"true"},
		"filter[vencimiento][from]":  {"2024-01-01"},
		"filter[vencimiento][to]":    {"2024-01-31"},
		"filter[sucursal]":           {"Norte"},
		"filter[tipo]":               {""},
		"filter[":                    {"x"},
		"filter[codigo][desconocido]": {"x"},
	}

	st, err := ParseQuery(q, queryFilters)
	require.NoError(t, err)

	assert.Equal(t, "acme", st.Search)
	assert.Equal(t, SortState{Key: "codigo", Dir: Desc}, st.Sort)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 25, st.PageSize)
	assert.Equal(t, true, st.Filters["activo"])
	assert.Equal(t, "Norte", st.Filters["sucursal"])
	assert.NotContains(t, st.Filters, "tipo")
	assert.NotContains(t, st.Filters, "codigo")

	r, ok := st.Filters["vencimiento"].(DateRange)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 1), *r.From)
	assert.Equal(t, date(2024, time.January, 31), *r.To)
}

func TestParseQuery_Invalid(t *testing.T) {
	cases := []url.Values{
		{"page": {"0"}},
		{"page": {"abc"}},
		{"page_size": {"-1"}},
		{"sort": {"codigo"}, "dir": {"up"}},
		{"filter[activo]": {"quizas"}},
		{"filter[vencimiento][from]": {"ayer"}},
	}
	for _, q := range cases {
		_, err := ParseQuery(q, queryFilters)
		assert.ErrorIs(t, err, ErrInvalidQuery, q.Encode())
	}
}

func TestState_ValuesRoundTrip(t *testing.T) {
	from := date(2024, time.March, 1)
	st := State{
		Search:   "norte",
		Sort:     SortState{Key: "codigo", Dir: Asc},
		Page:     3,
		PageSize: 20,
		Filters:  Filters{"activo": false, "vencimiento": DateRange{From: &from}, "sucursal": "Norte", "tipo": ""},
	}

	back, err := ParseQuery(st.Values(), queryFilters)
	require.NoError(t, err)

	assert.Equal(t, st.Search, back.Search)
	assert.Equal(t, st.Sort, back.Sort)
	assert.Equal(t, st.Page, back.Page)
	assert.Equal(t, st.PageSize, back.PageSize)
	assert.Equal(t, st.Filters.Active(), back.Filters)
}

func TestToCriteria(t *testing.T) {
	from, to := date(2024, time.January, 1), date(2024, time.January, 31)
	filters := Filters{
		"activo":      true,
		"vencimiento": DateRange{From: &from, To: &to},
		"codigo":      "ext",
		"tipo":        "ABC",
		"sucursal":    "Norte",
		"vacio":       "",
	}

	crit, rest := ToCriteria(queryFilters, filters)

	assert.Equal(t, Filters{"sucursal": "Norte", "codigo": "ext"}, rest, "texto y filtros sin Column se aplican en memoria")
	assert.ElementsMatch(t, []sharedDomain.Criterion{
		{Field: "activo", Op: sharedDomain.OpEq, Value: true},
		{Field: "fecha_vencimiento", Op: sharedDomain.OpGte, Value: from},
		{Field: "fecha_vencimiento", Op: sharedDomain.OpLte, Value: to.AddDate(0, 0, 1).Add(-time.Nanosecond)},
		{Field: "tipo", Op: sharedDomain.OpEq, Value: "ABC"},
	}, crit.ToConditions())
}
