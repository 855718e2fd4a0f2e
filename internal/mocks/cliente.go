package mocks

import (
	"context"

	clienteDomain "github.com/davicafu/matafuegos/internal/cliente/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// InMemoryClienteRepo simula ClienteRepository y SucursalRepository.
type InMemoryClienteRepo struct {
	Clientes   *Store[*clienteDomain.Cliente]
	Sucursales *Store[*clienteDomain.Sucursal]
}

func NewInMemoryClienteRepo() *InMemoryClienteRepo {
	return &InMemoryClienteRepo{
		Clientes:   NewStore(func(c *clienteDomain.Cliente) uuid.UUID { return c.ID }, clienteDomain.ErrClienteNotFound),
		Sucursales: NewStore(func(s *clienteDomain.Sucursal) uuid.UUID { return s.ID }, clienteDomain.ErrSucursalNotFound),
	}
}

var (
	_ clienteDomain.ClienteRepository  = (*InMemoryClienteRepo)(nil)
	_ clienteDomain.SucursalRepository = (*InMemoryClienteRepo)(nil)
)

func (r *InMemoryClienteRepo) Create(ctx context.Context, c *clienteDomain.Cliente, evt sharedDomain.OutboxEvent) error {
	return r.Clientes.Put(c, evt)
}

func (r *InMemoryClienteRepo) GetByID(ctx context.Context, id uuid.UUID) (*clienteDomain.Cliente, error) {
	return r.Clientes.Get(id)
}

func (r *InMemoryClienteRepo) Update(ctx context.Context, c *clienteDomain.Cliente, evt sharedDomain.OutboxEvent) error {
	return r.Clientes.Replace(c, evt)
}

func (r *InMemoryClienteRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.Clientes.Remove(id, evt)
}

func (r *InMemoryClienteRepo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*clienteDomain.Cliente, error) {
	return r.Clientes.List(criteria, pagination, sort), nil
}

func (r *InMemoryClienteRepo) CreateSucursal(ctx context.Context, s *clienteDomain.Sucursal, evt sharedDomain.OutboxEvent) error {
	c, err := r.Clientes.Get(s.ClienteID)
	if err != nil {
		return err
	}
	s.Cliente = c
	return r.Sucursales.Put(s, evt)
}

func (r *InMemoryClienteRepo) GetSucursal(ctx context.Context, id uuid.UUID) (*clienteDomain.Sucursal, error) {
	return r.Sucursales.Get(id)
}

func (r *InMemoryClienteRepo) ListSucursales(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*clienteDomain.Sucursal, error) {
	return r.Sucursales.List(criteria, pagination, sort), nil
}
