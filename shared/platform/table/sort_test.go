package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func byKey(key string) func(mapRecord) (any, bool) {
	return func(r mapRecord) (any, bool) { return Resolve(r, key) }
}

func TestSortState_Toggle(t *testing.T) {
	var s SortState
	assert.False(t, s.Active())

	s = s.Toggle("nombre")
	assert.Equal(t, SortState{Key: "nombre", Dir: Asc}, s)

	s = s.Toggle("nombre")
	assert.Equal(t, SortState{Key: "nombre", Dir: Desc}, s)

	// el tercer click sobre la misma columna quita el orden
	s = s.Toggle("nombre")
	assert.False(t, s.Active())

	s = SortState{Key: "nombre", Dir: Desc}.Toggle("codigo")
	assert.Equal(t, SortState{Key: "codigo", Dir: Asc}, s)
}

func TestSortRecords_LocaleAwareCaseInsensitive(t *testing.T) {
	records := []mapRecord{{"nombre": "Beta"}, {"nombre": "alfa"}, {"nombre": "Álamo"}, {"nombre": "zeta"}}

	got := SortRecords(records, Asc, byKey("nombre"), language.Spanish)
	assert.Equal(t, []string{"Álamo", "alfa", "Beta", "zeta"}, nombres(got))

	got = SortRecords(records, Desc, byKey("nombre"), language.Spanish)
	assert.Equal(t, []string{"zeta", "Beta", "alfa", "Álamo"}, nombres(got))

	// la entrada no se modifica
	assert.Equal(t, "Beta", records[0]["nombre"])
}

func TestSortRecords_NumericAndDates(t *testing.T) {
	records := []mapRecord{
		{"nombre": "a", "kg": 10, "alta": "2024-03-01"},
		{"nombre": "b", "kg": 2.5, "alta": "2023-12-31"},
		{"nombre": "c", "kg": 6, "alta": "2024-01-15"},
	}

	got := SortRecords(records, Asc, byKey("kg"), language.Spanish)
	assert.Equal(t, []string{"b", "c", "a"}, nombres(got))

	got = SortRecords(records, Asc, byKey("alta"), language.Spanish)
	assert.Equal(t, []string{"b", "c", "a"}, nombres(got))
}

func TestSortRecords_MissingValuesLast(t *testing.T) {
	records := []mapRecord{
		{"nombre": "sin", "sucursal": nil},
		{"nombre": "b", "sucursal": mapRecord{"nombre": "Sur"}},
		{"nombre": "vacio"},
		{"nombre": "a", "sucursal": mapRecord{"nombre": "Norte"}},
	}

	asc := SortRecords(records, Asc, byKey("sucursal.nombre"), language.Spanish)
	assert.Equal(t, []string{"a", "b", "sin", "vacio"}, nombres(asc))

	desc := SortRecords(records, Desc, byKey("sucursal.nombre"), language.Spanish)
	assert.Equal(t, []string{"b", "a", "sin", "vacio"}, nombres(desc))
}

func TestSortRecords_StableAndIdempotent(t *testing.T) {
	records := []mapRecord{
		{"nombre": "1", "grupo": "x"},
		{"nombre": "2", "grupo": "y"},
		{"nombre": "3", "grupo": "x"},
		{"nombre": "4", "grupo": "y"},
	}

	once := SortRecords(records, Asc, byKey("grupo"), language.Spanish)
	assert.Equal(t, []string{"1", "3", "2", "4"}, nombres(once))

	twice := SortRecords(once, Asc, byKey("grupo"), language.Spanish)
	assert.Equal(t, nombres(once), nombres(twice))
}

func TestSortRecords_MixedKindsTotalOrder(t *testing.T) {
	records := []mapRecord{
		{"nombre": "texto", "valor": "abc"},
		{"nombre": "diez", "valor": 10},
		{"nombre": "fecha", "valor": "2024-01-01"},
		{"nombre": "nueve", "valor": "9"},
		{"nombre": "dos", "valor": 2.0},
		{"nombre": "si", "valor": true},
	}
	want := []string{"dos", "diez", "fecha", "si", "nueve", "texto"}

	got := SortRecords(records, Asc, byKey("valor"), language.Spanish)
	assert.Equal(t, want, nombres(got))

	// el resultado no depende del orden de entrada
	reversed := make([]mapRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	got = SortRecords(reversed, Asc, byKey("valor"), language.Spanish)
	assert.Equal(t, want, nombres(got))

	got = SortRecords(records, Desc, byKey("valor"), language.Spanish)
	assert.Equal(t, []string{"texto", "nueve", "si", "fecha", "diez", "dos"}, nombres(got))
}
