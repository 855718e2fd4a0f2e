package table

import (
	"fmt"
	"time"
)

type clienteFx struct {
	Nombre string `json:"nombre"`
}

type sucursalFx struct {
	Nombre  string     `json:"nombre"`
	Cliente *clienteFx `json:"cliente"`
}

type extintorFx struct {
	ID          int         `json:"id"`
	Codigo      string      `json:"codigo"`
	Activo      bool        `json:"activo"`
	CapacidadKg float64     `json:"capacidad_kg"`
	Vencimiento time.Time   `json:"vencimiento"`
	UltimaCarga *time.Time  `json:"ultima_carga"`
	Sucursal    *sucursalFx `json:"sucursal"`
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// acmeBeta son los dos registros del ejemplo: Beta no tiene sucursal.
func acmeBeta() []map[string]any {
	return []map[string]any{
		{"id": 1, "nombre": "Acme", "activo": true, "sucursal": map[string]any{"nombre": "Norte"}},
		{"id": 2, "nombre": "Beta", "activo": false, "sucursal": nil},
	}
}

func extintores(n int) []*extintorFx {
	out := make([]*extintorFx, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &extintorFx{
			ID:          i,
			Codigo:      fmt.Sprintf("EXT-%03d", i),
			Activo:      i%2 == 0,
			CapacidadKg: float64(i),
			Vencimiento: date(2024, time.January, 1).AddDate(0, 0, i),
		})
	}
	return out
}

func nombres(records []map[string]any) []string {
	var out []string
	for _, r := range records {
		out = append(out, r["nombre"].(string))
	}
	return out
}

func codigos(records []*extintorFx) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Codigo)
	}
	return out
}

var extintorColumns = []ColumnSpec[*extintorFx]{
	{Key: "codigo", Label: "Código", Sortable: true},
	{Key: "capacidad_kg", Label: "Capacidad (kg)", Sortable: true},
	{Key: "vencimiento", Label: "Vencimiento", Sortable: true},
	{Key: "activo", Label: "Activo"},
	{Key: "sucursal.nombre", Label: "Sucursal", Sortable: true},
}
