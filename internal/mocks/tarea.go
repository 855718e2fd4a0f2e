package mocks

import (
	"context"
	"sync"
	"time"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// InMemoryTareaRepo simula TareaRepository; Gets y Lists cuentan las lecturas.
type InMemoryTareaRepo struct {
	*Store[*tareaDomain.Tarea]
	mu    sync.Mutex
	Gets  int
	Lists int
}

func NewInMemoryTareaRepo() *InMemoryTareaRepo {
	return &InMemoryTareaRepo{
		Store: NewStore(func(t *tareaDomain.Tarea) uuid.UUID { return t.ID }, tareaDomain.ErrTareaNotFound),
	}
}

var _ tareaDomain.TareaRepository = (*InMemoryTareaRepo)(nil)

func (r *InMemoryTareaRepo) Create(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	if _, err := r.Store.Get(t.ID); err == nil {
		return tareaDomain.ErrTareaAlreadyExists
	}
	cp := *t
	cp.Asignado = nil
	return r.Put(&cp, evt)
}

func (r *InMemoryTareaRepo) Update(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	cp := *t
	cp.Asignado = nil
	return r.Replace(&cp, evt)
}

func (r *InMemoryTareaRepo) GetByID(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error) {
	r.mu.Lock()
	r.Gets++
	r.mu.Unlock()
	t, err := r.Store.Get(id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (r *InMemoryTareaRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.Remove(id, evt)
}

func (r *InMemoryTareaRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*tareaDomain.Tarea, error) {
	r.mu.Lock()
	r.Lists++
	r.mu.Unlock()
	list := r.Store.List(criteria, pagination, sort)
	out := make([]*tareaDomain.Tarea, len(list))
	for i, t := range list {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

// Responsables es un puerto Responsables fijo para tests.
type Responsables map[uuid.UUID]*tareaDomain.Responsable

func (r Responsables) Responsables(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*tareaDomain.Responsable, error) {
	out := make(map[uuid.UUID]*tareaDomain.Responsable, len(ids))
	for _, id := range ids {
		if resp, ok := r[id]; ok {
			out[id] = resp
		}
	}
	return out, nil
}

var _ tareaDomain.Responsables = Responsables(nil)

// MockTareaAnalyticsRepository simula el almacén analítico.
type MockTareaAnalyticsRepository struct {
	mock.Mock
}

func (m *MockTareaAnalyticsRepository) LogBatch(ctx context.Context, entries []tareaDomain.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockTareaAnalyticsRepository) GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockTareaAnalyticsRepository) GetDailyTrend(ctx context.Context, start, end time.Time) ([]tareaDomain.DailyTrend, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]tareaDomain.DailyTrend), args.Error(1)
}

var _ tareaDomain.TareaAnalyticsRepository = (*MockTareaAnalyticsRepository)(nil)
