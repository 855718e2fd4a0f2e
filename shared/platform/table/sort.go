package table

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction es el sentido de ordenamiento.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState es el ordenamiento actual. Key vacía significa sin ordenar.
type SortState struct {
	Key string    `json:"key,omitempty"`
	Dir Direction `json:"dir,omitempty"`
}

// Active indica si hay una columna de ordenamiento.
func (s SortState) Active() bool {
	return s.Key != ""
}

// Toggle aplica un click sobre la cabecera key: misma columna asc -> desc -> sin orden;
// otra columna empieza en asc.
func (s SortState) Toggle(key string) SortState {
	if s.Key != key {
		return SortState{Key: key, Dir: Asc}
	}
	if s.Dir == Asc {
		return SortState{Key: key, Dir: Desc}
	}
	return SortState{}
}

// SortRecords devuelve una copia ordenada de forma estable.
// Los valores ausentes quedan al final sin importar la dirección.
func SortRecords[T any](records []T, dir Direction, accessor func(T) (any, bool), tag language.Tag) []T {
	out := make([]T, len(records))
	copy(out, records)
	if accessor == nil {
		return out
	}

	// el collator no es seguro para uso concurrente: uno por llamada
	col := collate.New(tag, collate.IgnoreCase)

	keys := make([]sortKey, len(out))
	for i, r := range out {
		v, ok := accessor(r)
		if ok && v != nil {
			keys[i] = newSortKey(v)
		}
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.kind == kindMissing || kb.kind == kindMissing {
			return ka.kind != kindMissing && kb.kind == kindMissing
		}
		c := compareKeys(col, ka, kb)
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]T, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// valueKind agrupa los valores de una columna. Entre kinds distintos manda el orden
// de la constante, así una columna mixta sigue teniendo un orden total.
type valueKind int

const (
	kindMissing valueKind = iota
	kindNumber
	kindTime
	kindBool
	kindText
)

type sortKey struct {
	kind valueKind
	num  float64
	at   time.Time
	flag bool
	text string
}

func newSortKey(v any) sortKey {
	if f, ok := toFloat(v); ok && !math.IsNaN(f) {
		return sortKey{kind: kindNumber, num: f}
	}
	switch x := v.(type) {
	case time.Time:
		return sortKey{kind: kindTime, at: x}
	case bool:
		return sortKey{kind: kindBool, flag: x}
	}
	s := Stringify(v)
	if t, ok := parseTime(s); ok {
		return sortKey{kind: kindTime, at: t}
	}
	return sortKey{kind: kindText, text: s}
}

// compareKeys devuelve -1, 0 o 1.
func compareKeys(col *collate.Collator, a, b sortKey) int {
	if a.kind != b.kind {
		return cmpInt(int(a.kind), int(b.kind))
	}
	switch a.kind {
	case kindNumber:
		return cmpFloat(a.num, b.num)
	case kindTime:
		return a.at.Compare(b.at)
	case kindBool:
		switch {
		case a.flag == b.flag:
			return 0
		case !a.flag:
			return -1
		default:
			return 1
		}
	default:
		return col.CompareString(a.text, b.text)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
