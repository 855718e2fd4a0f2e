package application

import (
	"context"

	"github.com/davicafu/matafuegos/internal/tarea/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"
)

var (
	estadoLabels = map[domain.Estado]string{
		domain.EstadoPendiente:  "Pendiente",
		domain.EstadoCompletada: "Completada",
		domain.EstadoFallida:    "Fallida",
	}
	tipoLabels = map[domain.Tipo]string{
		domain.TipoInspeccion:    "Inspección",
		domain.TipoMantenimiento: "Mantenimiento",
		domain.TipoRelevamiento:  "Relevamiento",
	}
)

var tareaSearchColumns = []string{"titulo", "descripcion"}

// TareaFilters: los que tienen Column se resuelven en el repositorio.
func TareaFilters() []table.FilterConfig[*domain.Tarea] {
	estados := make([]table.Option, 0, len(domain.Estados))
	for _, e := range domain.Estados {
		estados = append(estados, table.Option{Value: string(e), Label: estadoLabels[e]})
	}
	tipos := make([]table.Option, 0, len(domain.Tipos))
	for _, t := range domain.Tipos {
		tipos = append(tipos, table.Option{Value: string(t), Label: tipoLabels[t]})
	}
	return []table.FilterConfig[*domain.Tarea]{
		{Key: "estado", Label: "Estado", Type: table.FilterSelect, Options: estados, Column: "estado"},
		{Key: "tipo", Label: "Tipo", Type: table.FilterSelect, Options: tipos, Column: "tipo"},
		{Key: "asignado", Label: "Responsable", Type: table.FilterText, NestedKey: "asignado.nombre", Placeholder: "Nombre del técnico"},
		{Key: "fecha_programada", Label: "Programada", Type: table.FilterDateRange, Column: "fecha_programada"},
		{Key: "created_at", Label: "Alta", Type: table.FilterDateRange, Column: "created_at"},
	}
}

func (s *TareaService) tareaTableConfig(ctx context.Context) table.Config[*domain.Tarea] {
	return table.Config[*domain.Tarea]{
		Title: "Tareas",
		Columns: []table.ColumnSpec[*domain.Tarea]{
			{Key: "titulo", Label: "Título", Sortable: true},
			{Key: "tipo", Label: "Tipo", Sortable: true, Render: func(v any, t *domain.Tarea) string { return tipoLabels[t.Tipo] }},
			{Key: "asignado.nombre", Label: "Responsable", Sortable: true},
			{Key: "estado", Label: "Estado", Sortable: true, Render: func(v any, t *domain.Tarea) string { return estadoLabels[t.Estado] }},
			{Key: "fecha_programada", Label: "Programada", Sortable: true},
			{Key: "created_at", Label: "Alta", Sortable: true},
		},
		Filters:               TareaFilters(),
		SearchKeys:            tareaSearchColumns,
		SearchPlaceholder:     "Buscar por título o descripción...",
		ItemsPerPage:          s.pageSize.ItemsPerPage(),
		EnableAdvancedFilters: true,
		EmptyMessage:          "No hay tareas",
		Actions: []table.ActionSpec[*domain.Tarea]{
			{
				Name: "completar", Label: "Completar", Icon: "check", ClassName: "text-green-600",
				OnClick: func(t *domain.Tarea) error {
					_, err := s.CompleteTarea(ctx, t.ID)
					return err
				},
			},
			{
				Name: "fallar", Label: "Marcar fallida", Icon: "x", ClassName: "text-red-600",
				OnClick: func(t *domain.Tarea) error {
					_, err := s.FailTarea(ctx, t.ID)
					return err
				},
			},
		},
		OnDelete: func(t *domain.Tarea) error {
			return s.DeleteTarea(ctx, t.ID)
		},
	}
}
