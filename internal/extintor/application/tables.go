package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/davicafu/matafuegos/internal/extintor/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"
)

var estadoLabels = map[string]string{
	"vencido":    "Vencido",
	"por_vencer": "Por vencer",
	"vigente":    "Vigente",
}

// ExtintorFilters necesita el reloj para el filtro por estado.
func (s *ExtintorService) ExtintorFilters() []table.FilterConfig[*domain.Extintor] {
	tipos := make([]table.Option, 0, len(domain.Tipos))
	for _, t := range domain.Tipos {
		tipos = append(tipos, table.Option{Value: string(t), Label: string(t)})
	}
	return []table.FilterConfig[*domain.Extintor]{
		{Key: "tipo", Label: "Tipo", Type: table.FilterSelect, Options: tipos},
		{Key: "cliente", Label: "Cliente", Type: table.FilterText, NestedKey: "sucursal.cliente.nombre"},
		{Key: "sucursal", Label: "Sucursal", Type: table.FilterText, NestedKey: "sucursal.nombre"},
		{
			Key: "estado", Label: "Estado", Type: table.FilterSelect,
			Options: []table.Option{
				{Value: "vencido", Label: estadoLabels["vencido"]},
				{Value: "por_vencer", Label: estadoLabels["por_vencer"]},
				{Value: "vigente", Label: estadoLabels["vigente"]},
			},
			Value: s.estado,
		},
		{Key: "activo", Label: "Activo", Type: table.FilterBoolean},
		{Key: "fecha_vencimiento", Label: "Vencimiento", Type: table.FilterDateRange},
	}
}

func (s *ExtintorService) estado(e *domain.Extintor) (any, bool) {
	return e.Estado(s.now(), DiasAviso), true
}

func (s *ExtintorService) extintorTableConfig(ctx context.Context) table.Config[*domain.Extintor] {
	return table.Config[*domain.Extintor]{
		Title: "Extintores",
		Columns: []table.ColumnSpec[*domain.Extintor]{
			{Key: "codigo", Label: "Código", Sortable: true},
			{Key: "tipo", Label: "Tipo", Sortable: true},
			{Key: "capacidad_kg", Label: "Capacidad", Sortable: true, Render: func(v any, e *domain.Extintor) string {
				return strings.Replace(fmt.Sprintf("%.1f kg", e.CapacidadKg), ".", ",", 1)
			}},
			{Key: "sucursal.cliente.nombre", Label: "Cliente", Sortable: true},
			{Key: "sucursal.nombre", Label: "Sucursal", Sortable: true},
			{Key: "fecha_vencimiento", Label: "Vencimiento", Sortable: true},
			{Key: "ultima_carga", Label: "Última carga", Sortable: true},
			{
				Key: "estado", Label: "Estado", Sortable: true,
				Value:  s.estado,
				Render: func(v any, e *domain.Extintor) string { return estadoLabels[table.Stringify(v)] },
			},
		},
		Filters:               s.ExtintorFilters(),
		SearchKeys:            []string{"codigo", "fabricante", "sucursal.nombre", "sucursal.cliente.nombre"},
		SearchPlaceholder:     "Buscar por código, fabricante, sucursal o cliente...",
		ItemsPerPage:          s.pageSize.ItemsPerPage(),
		EnableAdvancedFilters: true,
		EmptyMessage:          "No hay extintores cargados",
		Actions: []table.ActionSpec[*domain.Extintor]{
			{
				Name: "recargar", Label: "Recargar", Icon: "refresh",
				OnClick: func(e *domain.Extintor) error {
					_, err := s.Recargar(ctx, e.ID)
					return err
				},
			},
		},
		OnDelete: func(e *domain.Extintor) error {
			return s.DeleteExtintor(ctx, e.ID)
		},
	}
}
