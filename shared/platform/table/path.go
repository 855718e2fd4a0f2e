package table

import (
	"reflect"
	"strings"
	"sync"
)

// fieldIndex cachea, por tipo de struct, el índice del campo que corresponde a cada segmento.
var fieldIndex sync.Map // map[fieldKey]int

type fieldKey struct {
	t       reflect.Type
	segment string
}

// Resolve recorre un path con puntos (ej. "sucursal.cliente.nombre") sobre structs,
// punteros, interfaces y map[string]X.
// Devuelve (nil, false) si algún segmento intermedio es nil o no existe; nunca hace panic.
func Resolve(record any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	v := reflect.ValueOf(record)
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, false
		}
		var ok bool
		if v, ok = indirect(v); !ok {
			return nil, false
		}
		if v, ok = child(v, segment); !ok {
			return nil, false
		}
	}

	v, ok := indirect(v)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// indirect desreferencia punteros e interfaces hasta llegar a un valor concreto.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for {
		if !v.IsValid() {
			return v, false
		}
		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return v, false
			}
			v = v.Elem()
		case reflect.Map, reflect.Slice:
			if v.IsNil() {
				return v, false
			}
			return v, true
		default:
			return v, true
		}
	}
}

func child(v reflect.Value, segment string) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Struct:
		idx, ok := structField(v.Type(), segment)
		if !ok {
			return reflect.Value{}, false
		}
		return v.Field(idx), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
		if !val.IsValid() {
			return reflect.Value{}, false
		}
		return val, true
	default:
		return reflect.Value{}, false
	}
}

// structField busca primero por tag json y después por nombre de campo sin distinguir mayúsculas.
func structField(t reflect.Type, segment string) (int, bool) {
	key := fieldKey{t: t, segment: segment}
	if idx, ok := fieldIndex.Load(key); ok {
		return idx.(int), idx.(int) >= 0
	}

	idx := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == segment {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.IsExported() && strings.EqualFold(f.Name, segment) {
				idx = i
				break
			}
		}
	}

	fieldIndex.Store(key, idx)
	return idx, idx >= 0
}
