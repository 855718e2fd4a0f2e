package utils

// Ternary es un operador ternario genérico
func Ternary[T any](condition bool, ifTrue, ifFalse T) T {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Ptr devuelve un puntero a v.
func Ptr[T any](v T) *T {
	return &v
}
