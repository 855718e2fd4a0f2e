package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

var (
	ErrExtintorNotFound = errors.New("extintor not found")
	ErrInvalidExtintor  = errors.New("invalid extintor")
	ErrSucursalNotFound = errors.New("sucursal not found")
)

// --- Repositorio de Extintores ---
type ExtintorRepository interface {
	Create(ctx context.Context, e *Extintor, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, e *Extintor, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Extintor, error)
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Extintor, error)
}

// SucursalReader resuelve sucursales del contexto de clientes.
// Sucursales devuelve sólo las que existen; las ausentes no son error.
type SucursalReader interface {
	GetSucursal(ctx context.Context, id uuid.UUID) (*Sucursal, error)
	Sucursales(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Sucursal, error)
}
