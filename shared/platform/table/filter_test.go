package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapRecord = map[string]any

func filterRecords(configs []FilterConfig[mapRecord], filters Filters, records []mapRecord) []mapRecord {
	var out []mapRecord
	for _, r := range records {
		if MatchFilters(configs, filters, r) {
			out = append(out, r)
		}
	}
	return out
}

func TestMatchFilters_BooleanExample(t *testing.T) {
	configs := []FilterConfig[mapRecord]{{Key: "activo", Label: "Activo", Type: FilterBoolean}}

	got := filterRecords(configs, Filters{"activo": true}, acmeBeta())
	assert.Equal(t, []string{"Acme"}, nombres(got))

	// "true" como string (así llega desde una query) equivale a true
	got = filterRecords(configs, Filters{"activo": "true"}, acmeBeta())
	assert.Equal(t, []string{"Acme"}, nombres(got))
}

func TestMatchFilters_UnknownKeyActsAsSelect(t *testing.T) {
	got := filterRecords(nil, Filters{"activo": true}, acmeBeta())
	assert.Equal(t, []string{"Acme"}, nombres(got))
}

func TestMatchFilters_UnknownKeyWithDateRange(t *testing.T) {
	records := []mapRecord{
		{"nombre": "enero", "alta": date(2024, time.January, 10)},
		{"nombre": "marzo", "alta": "2024-03-05"},
		{"nombre": "sin fecha"},
	}
	from, to := date(2024, time.January, 1), date(2024, time.January, 31)

	got := filterRecords(nil, Filters{"alta": DateRange{From: &from, To: &to}}, records)
	assert.Equal(t, []string{"enero"}, nombres(got))

	got = filterRecords(nil, Filters{"alta": &DateRange{From: &to}}, records)
	assert.Equal(t, []string{"marzo"}, nombres(got))
}

func TestMatchFilters_NestedKeyExample(t *testing.T) {
	configs := []FilterConfig[mapRecord]{{Key: "sucursal", NestedKey: "sucursal.nombre", Type: FilterSelect}}

	got := filterRecords(configs, Filters{"sucursal": "Norte"}, acmeBeta())
	assert.Equal(t, []string{"Acme"}, nombres(got))

	assert.NotPanics(t, func() {
		got = filterRecords(configs, Filters{"sucursal": "Sur"}, acmeBeta())
	})
	assert.Empty(t, got)
}

func TestMatchFilters_MissingIntermediateKey(t *testing.T) {
	records := []mapRecord{
		{"nombre": "Acme", "sucursal": mapRecord{"nombre": "Norte", "alta": "2024-02-10"}},
		{"nombre": "Beta", "sucursal": nil},
		{"nombre": "Gamma"},
	}

	cases := map[string]FilterConfig[mapRecord]{
		"select":    {Key: "f", NestedKey: "sucursal.nombre", Type: FilterSelect},
		"text":      {Key: "f", NestedKey: "sucursal.nombre", Type: FilterText},
		"daterange": {Key: "f", NestedKey: "sucursal.alta", Type: FilterDateRange},
	}
	from := date(2024, time.January, 1)
	values := map[string]any{
		"select":    "Norte",
		"text":      "nor",
		"daterange": DateRange{From: &from},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			configs := []FilterConfig[mapRecord]{cfg}

			got := filterRecords(configs, Filters{"f": values[name]}, records)
			assert.Equal(t, []string{"Acme"}, nombres(got))

			// con el filtro inerte todos los registros siguen visibles
			got = filterRecords(configs, Filters{"f": ""}, records)
			assert.Len(t, got, 3)
		})
	}
}

func TestMatchFilters_TextIsCaseAndAccentInsensitive(t *testing.T) {
	records := []mapRecord{{"nombre": "Ñandú Seguridad"}, {"nombre": "Acme"}}
	configs := []FilterConfig[mapRecord]{{Key: "nombre", Type: FilterText}}

	got := filterRecords(configs, Filters{"nombre": "NANDU"}, records)
	assert.Equal(t, []string{"Ñandú Seguridad"}, nombres(got))
}

func TestMatchFilters_DateRangeInclusive(t *testing.T) {
	records := []*extintorFx{
		{Codigo: "A", Vencimiento: date(2024, time.January, 1)},
		{Codigo: "B", Vencimiento: time.Date(2024, time.January, 31, 15, 30, 0, 0, time.UTC)},
		{Codigo: "C", Vencimiento: date(2024, time.February, 1)},
		{Codigo: "D"},
	}
	configs := []FilterConfig[*extintorFx]{{Key: "vencimiento", Type: FilterDateRange}}
	from, to := date(2024, time.January, 1), date(2024, time.January, 31)

	var got []*extintorFx
	for _, r := range records {
		if MatchFilters(configs, Filters{"vencimiento": DateRange{From: &from, To: &to}}, r) {
			got = append(got, r)
		}
	}
	assert.Equal(t, []string{"A", "B"}, codigos(got))

	// sin límite inferior
	got = nil
	for _, r := range records {
		if MatchFilters(configs, Filters{"vencimiento": &DateRange{To: &from}}, r) {
			got = append(got, r)
		}
	}
	assert.Equal(t, []string{"A"}, codigos(got))
}

func TestMatchFilters_TypedAccessorAndPointerDate(t *testing.T) {
	carga := date(2024, time.March, 5)
	records := []*extintorFx{{Codigo: "A", UltimaCarga: &carga}, {Codigo: "B"}}
	from := date(2024, time.March, 1)

	configs := []FilterConfig[*extintorFx]{{
		Key:  "carga",
		Type: FilterDateRange,
		Value: func(e *extintorFx) (any, bool) {
			if e.UltimaCarga == nil {
				return nil, false
			}
			return *e.UltimaCarga, true
		},
	}}

	var got []*extintorFx
	for _, r := range records {
		if MatchFilters(configs, Filters{"carga": DateRange{From: &from}}, r) {
			got = append(got, r)
		}
	}
	assert.Equal(t, []string{"A"}, codigos(got))
}

func TestMatchFilters_AndIsOrderIndependent(t *testing.T) {
	records := extintores(10)
	configs := []FilterConfig[*extintorFx]{
		{Key: "activo", Type: FilterBoolean},
		{Key: "codigo", Type: FilterText},
	}
	filters := Filters{"activo": true, "codigo": "ext-00"}

	var got []*extintorFx
	for _, r := range records {
		if MatchFilters(configs, filters, r) {
			got = append(got, r)
		}
	}
	assert.Equal(t, []string{"EXT-002", "EXT-004", "EXT-006", "EXT-008"}, codigos(got))

	reversed := []FilterConfig[*extintorFx]{configs[1], configs[0]}
	var again []*extintorFx
	for _, r := range records {
		if MatchFilters(reversed, filters, r) {
			again = append(again, r)
		}
	}
	assert.Equal(t, got, again)
}

func TestMatchSearch(t *testing.T) {
	fields := []func(mapRecord) (any, bool){
		func(r mapRecord) (any, bool) { return Resolve(r, "nombre") },
		func(r mapRecord) (any, bool) { return Resolve(r, "sucursal.nombre") },
	}
	records := acmeBeta()

	assert.True(t, MatchSearch("", fields, records[1]))
	assert.True(t, MatchSearch("  ", fields, records[1]))
	assert.True(t, MatchSearch("norte", fields, records[0]))
	assert.True(t, MatchSearch("BET", fields, records[1]))
	assert.False(t, MatchSearch("norte", fields, records[1]))
}

func TestInert(t *testing.T) {
	now := time.Now()
	assert.True(t, Inert(nil))
	assert.True(t, Inert(""))
	assert.True(t, Inert("   "))
	assert.True(t, Inert(DateRange{}))
	assert.True(t, Inert((*DateRange)(nil)))
	assert.False(t, Inert(false))
	assert.False(t, Inert(0))
	assert.False(t, Inert(DateRange{From: &now}))
}

func TestResolve(t *testing.T) {
	e := &extintorFx{Codigo: "X", Sucursal: &sucursalFx{Nombre: "Centro", Cliente: &clienteFx{Nombre: "Acme"}}}

	v, ok := Resolve(e, "sucursal.cliente.nombre")
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)

	// nombre de campo en lugar de tag json
	v, ok = Resolve(e, "Sucursal.Nombre")
	assert.True(t, ok)
	assert.Equal(t, "Centro", v)

	e.Sucursal.Cliente = nil
	_, ok = Resolve(e, "sucursal.cliente.nombre")
	assert.False(t, ok)

	for _, path := range []string{"", ".", "sucursal..nombre", "inexistente", "codigo.mas"} {
		assert.NotPanics(t, func() {
			_, ok = Resolve(e, path)
		})
		assert.False(t, ok, path)
	}

	var nilRecord *extintorFx
	_, ok = Resolve(nilRecord, "codigo")
	assert.False(t, ok)
}
