package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrClienteNotFound  = errors.New("cliente not found")
	ErrSucursalNotFound = errors.New("sucursal not found")
	ErrInvalidCliente   = errors.New("invalid cliente")
	ErrInvalidSucursal  = errors.New("invalid sucursal")
)

// ---------- Interfaces (Ports) ----------

// ClienteRepository persiste clientes junto con su evento de outbox.
type ClienteRepository interface {
	Create(ctx context.Context, c *Cliente, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cliente, error)
	// Debe devolver ErrClienteNotFound si no existe.
	Update(ctx context.Context, c *Cliente, evt sharedDomain.OutboxEvent) error
	// Debe devolver ErrClienteNotFound si no existe.
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	// pagination nil = sin límite.
	List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Cliente, error)
}

// SucursalRepository lee las sucursales con su cliente hidratado.
type SucursalRepository interface {
	CreateSucursal(ctx context.Context, s *Sucursal, evt sharedDomain.OutboxEvent) error
	GetSucursal(ctx context.Context, id uuid.UUID) (*Sucursal, error)
	ListSucursales(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Sucursal, error)
}
