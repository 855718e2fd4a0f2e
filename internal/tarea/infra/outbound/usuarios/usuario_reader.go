// Package usuarios adapta el contexto de usuarios al puerto Responsables.
package usuarios

import (
	"context"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// UsuarioLister es la parte del servicio de usuarios que se consulta.
type UsuarioLister interface {
	ListUsuarios(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*usuarioDomain.Usuario, error)
}

type UsuarioReader struct {
	usuarios UsuarioLister
}

func NewUsuarioReader(usuarios UsuarioLister) *UsuarioReader {
	return &UsuarioReader{usuarios: usuarios}
}

var _ tareaDomain.Responsables = (*UsuarioReader)(nil)

// Responsables resuelve en una sola consulta; los ids sin usuario quedan fuera del mapa.
func (r *UsuarioReader) Responsables(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*tareaDomain.Responsable, error) {
	out := make(map[uuid.UUID]*tareaDomain.Responsable, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			values = append(values, id.String())
		}
	}
	list, err := r.usuarios.ListUsuarios(ctx, sharedDomain.Conditions{{Field: "id", Op: sharedDomain.OpIn, Value: values}}, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, err
	}
	for _, u := range list {
		out[u.ID] = &tareaDomain.Responsable{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
	}
	return out, nil
}
