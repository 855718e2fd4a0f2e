package mocks

import (
	"context"
	"sync"

	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

type InMemoryExtintorRepo struct {
	*Store[*extintorDomain.Extintor]
}

func NewInMemoryExtintorRepo() *InMemoryExtintorRepo {
	return &InMemoryExtintorRepo{
		Store: NewStore(func(e *extintorDomain.Extintor) uuid.UUID { return e.ID }, extintorDomain.ErrExtintorNotFound),
	}
}

var _ extintorDomain.ExtintorRepository = (*InMemoryExtintorRepo)(nil)

func (r *InMemoryExtintorRepo) Create(ctx context.Context, e *extintorDomain.Extintor, evt sharedDomain.OutboxEvent) error {
	return r.Put(e, evt)
}

func (r *InMemoryExtintorRepo) Update(ctx context.Context, e *extintorDomain.Extintor, evt sharedDomain.OutboxEvent) error {
	return r.Replace(e, evt)
}

func (r *InMemoryExtintorRepo) GetByID(ctx context.Context, id uuid.UUID) (*extintorDomain.Extintor, error) {
	return r.Get(id)
}

func (r *InMemoryExtintorRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.Remove(id, evt)
}

func (r *InMemoryExtintorRepo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*extintorDomain.Extintor, error) {
	return r.Store.List(criteria, pagination, sort), nil
}

// SucursalReader es un SucursalReader fijo para tests.
type SucursalReader struct {
	mu    sync.Mutex
	Items map[uuid.UUID]*extintorDomain.Sucursal
	Calls int
}

func NewSucursalReader(sucursales ...*extintorDomain.Sucursal) *SucursalReader {
	r := &SucursalReader{Items: make(map[uuid.UUID]*extintorDomain.Sucursal)}
	for _, s := range sucursales {
		r.Items[s.ID] = s
	}
	return r
}

func (r *SucursalReader) GetSucursal(ctx context.Context, id uuid.UUID) (*extintorDomain.Sucursal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	s, ok := r.Items[id]
	if !ok {
		return nil, extintorDomain.ErrSucursalNotFound
	}
	return s, nil
}

func (r *SucursalReader) Sucursales(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*extintorDomain.Sucursal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	out := make(map[uuid.UUID]*extintorDomain.Sucursal)
	for _, id := range ids {
		if s, ok := r.Items[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}
