package application

import (
	"context"

	"github.com/davicafu/matafuegos/internal/cliente/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"
)

// ClienteFilters son los filtros avanzados de la tabla de clientes.
func ClienteFilters() []table.FilterConfig[*domain.Cliente] {
	return []table.FilterConfig[*domain.Cliente]{
		{Key: "nombre", Label: "Nombre", Type: table.FilterText, Placeholder: "Filtrar por nombre"},
		{Key: "cuit", Label: "CUIT", Type: table.FilterText},
		{Key: "activo", Label: "Activo", Type: table.FilterBoolean},
		{Key: "created_at", Label: "Alta", Type: table.FilterDateRange},
	}
}

func SucursalFilters() []table.FilterConfig[*domain.Sucursal] {
	return []table.FilterConfig[*domain.Sucursal]{
		{Key: "cliente", Label: "Cliente", Type: table.FilterText, NestedKey: "cliente.nombre"},
		{Key: "localidad", Label: "Localidad", Type: table.FilterText},
		{Key: "activo", Label: "Activa", Type: table.FilterBoolean},
	}
}

func (s *ClienteService) clienteTableConfig(ctx context.Context) table.Config[*domain.Cliente] {
	return table.Config[*domain.Cliente]{
		Title: "Clientes",
		Columns: []table.ColumnSpec[*domain.Cliente]{
			{Key: "nombre", Label: "Nombre", Sortable: true},
			{Key: "cuit", Label: "CUIT", Sortable: true, Render: func(v any, c *domain.Cliente) string { return FormatCUIT(c.CUIT) }},
			{Key: "email", Label: "Email", Sortable: true},
			{Key: "telefono", Label: "Teléfono"},
			{Key: "activo", Label: "Activo", Sortable: true},
			{Key: "created_at", Label: "Alta", Sortable: true},
		},
		Filters:               ClienteFilters(),
		SearchKeys:            []string{"nombre", "cuit", "email"},
		SearchPlaceholder:     "Buscar clientes...",
		ItemsPerPage:          s.pageSize.ItemsPerPage(),
		EnableAdvancedFilters: true,
		EmptyMessage:          "No hay clientes cargados",
		OnDelete: func(c *domain.Cliente) error {
			return s.DeleteCliente(ctx, c.ID)
		},
	}
}

func (s *ClienteService) sucursalTableConfig() table.Config[*domain.Sucursal] {
	return table.Config[*domain.Sucursal]{
		Title: "Sucursales",
		Columns: []table.ColumnSpec[*domain.Sucursal]{
			{Key: "nombre", Label: "Sucursal", Sortable: true},
			{Key: "cliente.nombre", Label: "Cliente", Sortable: true},
			{Key: "localidad", Label: "Localidad", Sortable: true},
			{Key: "direccion", Label: "Dirección"},
			{Key: "activo", Label: "Activa"},
		},
		Filters:               SucursalFilters(),
		SearchPlaceholder:     "Buscar sucursales...",
		ItemsPerPage:          s.pageSize.ItemsPerPage(),
		EnableAdvancedFilters: true,
	}
}

// FormatCUIT muestra el CUIT como XX-XXXXXXXX-X.
func FormatCUIT(cuit string) string {
	if len(cuit) != 11 {
		return cuit
	}
	return cuit[:2] + "-" + cuit[2:10] + "-" + cuit[10:]
}
