package application

import (
	"context"
	"strconv"

	"github.com/davicafu/matafuegos/internal/usuario/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"
)

var rolLabels = map[domain.Rol]string{
	domain.RolAdmin:      "Administrador",
	domain.RolSupervisor: "Supervisor",
	domain.RolTecnico:    "Técnico",
	domain.RolCliente:    "Cliente",
}

func UsuarioFilters() []table.FilterConfig[*domain.Usuario] {
	roles := make([]table.Option, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		roles = append(roles, table.Option{Value: string(r), Label: rolLabels[r]})
	}
	return []table.FilterConfig[*domain.Usuario]{
		{Key: "rol", Label: "Rol", Type: table.FilterSelect, Options: roles},
		{Key: "activo", Label: "Activo", Type: table.FilterBoolean},
		{Key: "created_at", Label: "Alta", Type: table.FilterDateRange},
	}
}

func (s *UsuarioService) usuarioTableConfig(ctx context.Context) table.Config[*domain.Usuario] {
	return table.Config[*domain.Usuario]{
		Title: "Usuarios",
		Columns: []table.ColumnSpec[*domain.Usuario]{
			{Key: "nombre", Label: "Nombre", Sortable: true},
			{Key: "email", Label: "Email", Sortable: true},
			{Key: "rol", Label: "Rol", Sortable: true, Render: func(v any, u *domain.Usuario) string { return rolLabels[u.Rol] }},
			{
				Key: "edad", Label: "Edad", Sortable: true,
				Value:  func(u *domain.Usuario) (any, bool) { return float64(u.Age()), !u.BirthDate.IsZero() },
				Render: func(v any, u *domain.Usuario) string {
					if u.BirthDate.IsZero() {
						return ""
					}
					return strconv.Itoa(u.Age())
				},
			},
			{Key: "activo", Label: "Activo", Sortable: true},
			{Key: "created_at", Label: "Alta", Sortable: true},
		},
		Filters:               UsuarioFilters(),
		SearchKeys:            []string{"nombre", "email"},
		SearchPlaceholder:     "Buscar por nombre o email...",
		ItemsPerPage:          s.pageSize.ItemsPerPage(),
		EnableAdvancedFilters: true,
		EmptyMessage:          "No hay usuarios cargados",
		Actions: []table.ActionSpec[*domain.Usuario]{
			{
				Name: "desactivar", Label: "Desactivar", Icon: "user-x", ClassName: "text-red-600",
				OnClick: func(u *domain.Usuario) error {
					activo := false
					_, err := s.UpdateUsuario(ctx, u.ID, UpdateUsuarioInput{Activo: &activo})
					return err
				},
			},
		},
		OnDelete: func(u *domain.Usuario) error {
			return s.DeleteUsuario(ctx, u.ID)
		},
	}
}
