package domain

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrUsuarioNotFound      = errors.New("usuario not found")
	ErrUsuarioAlreadyExists = errors.New("usuario already exists")
	ErrInvalidUsuario       = errors.New("invalid usuario")
)

// ---------- Interfaces (Ports) ----------

// UsuarioRepository define las operaciones persistentes para Usuario.
type UsuarioRepository interface {
	// Debe devolver ErrUsuarioAlreadyExists si el id o el email ya existen.
	Create(ctx context.Context, u *Usuario, evt sharedDomain.OutboxEvent) error

	// Debe devolver ErrUsuarioNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error)

	// Debe devolver ErrUsuarioNotFound si el usuario no existe.
	Update(ctx context.Context, u *Usuario, evt sharedDomain.OutboxEvent) error

	// Debe devolver ErrUsuarioNotFound si el usuario no existe.
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error

	List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Usuario, error)
}

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("usuario:id:%s", id.String())
}
