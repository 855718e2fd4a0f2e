package mocks

import (
	"context"

	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// InMemoryUsuarioRepo simula UsuarioRepository; Gets cuenta las lecturas por id.
type InMemoryUsuarioRepo struct {
	*Store[*usuarioDomain.Usuario]
	Gets int
}

func NewInMemoryUsuarioRepo() *InMemoryUsuarioRepo {
	return &InMemoryUsuarioRepo{
		Store: NewStore(func(u *usuarioDomain.Usuario) uuid.UUID { return u.ID }, usuarioDomain.ErrUsuarioNotFound),
	}
}

var _ usuarioDomain.UsuarioRepository = (*InMemoryUsuarioRepo)(nil)

func (r *InMemoryUsuarioRepo) Create(ctx context.Context, u *usuarioDomain.Usuario, evt sharedDomain.OutboxEvent) error {
	if _, err := r.Store.Get(u.ID); err == nil {
		return usuarioDomain.ErrUsuarioAlreadyExists
	}
	if len(r.Store.List(usuarioDomain.EmailCriteria{Email: u.Email}, nil, sharedQuery.Sort{})) > 0 {
		return usuarioDomain.ErrUsuarioAlreadyExists
	}
	// Copia: el servicio muta el puntero que recibe en Update.
	cp := *u
	return r.Put(&cp, evt)
}

func (r *InMemoryUsuarioRepo) GetByID(ctx context.Context, id uuid.UUID) (*usuarioDomain.Usuario, error) {
	r.Gets++
	u, err := r.Store.Get(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryUsuarioRepo) Update(ctx context.Context, u *usuarioDomain.Usuario, evt sharedDomain.OutboxEvent) error {
	cp := *u
	return r.Replace(&cp, evt)
}

func (r *InMemoryUsuarioRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.Remove(id, evt)
}

func (r *InMemoryUsuarioRepo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*usuarioDomain.Usuario, error) {
	return r.Store.List(criteria, pagination, sort), nil
}
