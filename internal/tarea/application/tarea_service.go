package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	"github.com/davicafu/matafuegos/shared/platform/cache"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCacheTTL en segundos.
const DefaultCacheTTL = 120

// TareaService define los casos de uso relacionados con Tarea.
// Incorpora repositorio, caché y logger.
type TareaService struct {
	repo         domain.TareaRepository
	responsables domain.Responsables
	cache        cache.Cache
	ttl          int
	pageSize     table.PageSizer
	log          *zap.Logger
}

// NewTareaService acepta responsables y cache nil.
func NewTareaService(repo domain.TareaRepository, responsables domain.Responsables, c cache.Cache, ttl int, pageSize table.PageSizer, log *zap.Logger) *TareaService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if pageSize == nil {
		pageSize = table.FixedPageSize(table.DefaultPageSize)
	}
	return &TareaService{repo: repo, responsables: responsables, cache: c, ttl: ttl, pageSize: pageSize, log: log}
}

type CreateTareaInput struct {
	// ID opcional: las tareas replicadas por evento conservan el suyo.
	ID              uuid.UUID  `json:"-"`
	Titulo          string     `json:"titulo" binding:"required"`
	Descripcion     string     `json:"descripcion"`
	Tipo            string     `json:"tipo" binding:"required"`
	AsignadoID      uuid.UUID  `json:"asignado_id" binding:"required"`
	SucursalID      *uuid.UUID `json:"sucursal_id"`
	FechaProgramada *time.Time `json:"fecha_programada"`
}

type UpdateTareaInput struct {
	Titulo          *string    `json:"titulo,omitempty"`
	Descripcion     *string    `json:"descripcion,omitempty"`
	Tipo            *string    `json:"tipo,omitempty"`
	AsignadoID      *uuid.UUID `json:"asignado_id,omitempty"`
	FechaProgramada *time.Time `json:"fecha_programada,omitempty"`
}

// CreateTarea crea la tarea, su evento de outbox y actualiza la caché.
func (s *TareaService) CreateTarea(ctx context.Context, in CreateTareaInput) (*domain.Tarea, error) {
	tipo, err := domain.ParseTipo(in.Tipo)
	if err != nil {
		return nil, err
	}
	t, err := domain.NewTarea(in.Titulo, in.Descripcion, tipo, in.AsignadoID, in.SucursalID, in.FechaProgramada)
	if err != nil {
		return nil, err
	}
	if in.ID != uuid.Nil {
		t.ID = in.ID
	}

	evt := sharedDomain.NewOutboxEvent(domain.TareaTopic, t.ID.String(), domain.TareaCreated, t.CreatedEvent())
	if err := s.repo.Create(ctx, t, evt); err != nil {
		s.log.Error("Failed to create tarea", zap.Error(err))
		return nil, err
	}

	// Actualizar caché en segundo plano
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(t.ID), t, s.ttl, s.log)
	s.log.Info("📋 Tarea creada", zap.String("tarea_id", t.ID.String()), zap.String("asignado_id", t.AsignadoID.String()))
	return t, nil
}

func (s *TareaService) UpdateTarea(ctx context.Context, id uuid.UUID, in UpdateTareaInput) (*domain.Tarea, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	titulo, descripcion, programada := t.Titulo, t.Descripcion, t.FechaProgramada
	if in.Titulo != nil {
		titulo = *in.Titulo
	}
	if in.Descripcion != nil {
		descripcion = *in.Descripcion
	}
	if in.FechaProgramada != nil {
		programada = in.FechaProgramada
	}
	t.Update(titulo, descripcion, programada)
	if in.Tipo != nil {
		if t.Tipo, err = domain.ParseTipo(*in.Tipo); err != nil {
			return nil, err
		}
	}
	if in.AsignadoID != nil {
		t.AsignadoID = *in.AsignadoID
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, s.save(ctx, t)
}

// CompleteTarea marca la tarea como completada.
func (s *TareaService) CompleteTarea(ctx context.Context, id uuid.UUID) (*domain.Tarea, error) {
	return s.transition(ctx, id, (*domain.Tarea).Complete)
}

// FailTarea marca la tarea como fallida.
func (s *TareaService) FailTarea(ctx context.Context, id uuid.UUID) (*domain.Tarea, error) {
	return s.transition(ctx, id, (*domain.Tarea).Fail)
}

func (s *TareaService) transition(ctx context.Context, id uuid.UUID, apply func(*domain.Tarea) error) (*domain.Tarea, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("✅ Tarea cerrada", zap.String("tarea_id", t.ID.String()), zap.String("estado", string(t.Estado)))
	return t, nil
}

// save actualiza la tarea, crea un evento y actualiza la caché.
func (s *TareaService) save(ctx context.Context, t *domain.Tarea) error {
	evt := sharedDomain.NewOutboxEvent(domain.TareaTopic, t.ID.String(), domain.TareaUpdated, t.UpdatedEvent())
	if err := s.repo.Update(ctx, t, evt); err != nil {
		return err
	}
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(t.ID), t, s.ttl, s.log)
	return nil
}

// DeleteTarea elimina la tarea, crea un evento y limpia la caché.
func (s *TareaService) DeleteTarea(ctx context.Context, id uuid.UUID) error {
	evt := sharedDomain.NewOutboxEvent(domain.TareaTopic, id.String(), domain.TareaDeleted, sharedEvents.EntityDeleted{ID: id})
	if err := s.repo.DeleteByID(ctx, id, evt); err != nil {
		return err
	}
	cache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	s.log.Info("🗑️ Tarea eliminada", zap.String("tarea_id", id.String()))
	return nil
}

// GetTarea usa cache-aside con reintentos; el responsable se hidrata siempre fuera de la caché.
func (s *TareaService) GetTarea(ctx context.Context, id uuid.UUID) (*domain.Tarea, error) {
	t, err := cache.GetOrLoad(ctx, s.cache, domain.CacheKeyByID(id), s.ttl, s.log, func(ctx context.Context) (*domain.Tarea, error) {
		t, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrTareaNotFound) {
			return nil, sharedUtils.Permanent(err)
		}
		return t, err
	})
	if err != nil {
		if errors.Is(err, domain.ErrTareaNotFound) {
			s.log.Warn("Tarea not found", zap.String("tarea_id", id.String()))
		}
		return nil, err
	}
	cp := *t
	s.hydrate(ctx, []*domain.Tarea{&cp})
	return &cp, nil
}

func (s *TareaService) ListTareas(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Tarea, error) {
	list, err := s.repo.ListByCriteria(ctx, criteria, pagination, sort)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, list)
	return list, nil
}

func (s *TareaService) ListPendingForUser(ctx context.Context, usuarioID uuid.UUID, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Tarea, error) {
	criteria := sharedDomain.And(
		domain.EstadoCriteria{Estado: domain.EstadoPendiente},
		domain.AsignadoCriteria{ID: usuarioID},
	)
	return s.ListTareas(ctx, criteria, pagination, sort)
}

func (s *TareaService) ListCompletedForUser(ctx context.Context, usuarioID uuid.UUID, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Tarea, error) {
	criteria := sharedDomain.And(
		domain.EstadoCriteria{Estado: domain.EstadoCompletada},
		domain.AsignadoCriteria{ID: usuarioID},
	)
	return s.ListTareas(ctx, criteria, pagination, sort)
}

// hydrate completa Asignado con una sola consulta. Si falla, las tareas quedan sin hidratar.
func (s *TareaService) hydrate(ctx context.Context, list []*domain.Tarea) {
	if s.responsables == nil || len(list) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.AsignadoID)
	}
	byID, err := s.responsables.Responsables(ctx, ids)
	if err != nil {
		s.log.Warn("No se pudieron hidratar responsables", zap.Int("count", len(ids)), zap.Error(err))
		return
	}
	for _, t := range list {
		t.Asignado = byID[t.AsignadoID]
	}
}

// ------------------ Tablas ------------------

// serverCriteria traduce los filtros con columna a criterios del repositorio. La búsqueda
// libre y los filtros de texto los aplica la tabla en memoria.
func serverCriteria(filters table.Filters) sharedDomain.Criteria {
	crit, _ := table.ToCriteria(TareaFilters(), filters)
	return crit
}

// TableTareas filtra del lado del repositorio y arma la tabla con lo que vuelve.
func (s *TareaService) TableTareas(ctx context.Context, st table.State) (*table.Table[*domain.Tarea], error) {
	list, err := s.ListTareas(ctx, serverCriteria(st.Filters), nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list tareas: %w", err)
	}
	t := table.New(s.tareaTableConfig(ctx))
	if err := t.Load(list, st); err != nil {
		return nil, err
	}
	return t, nil
}

// InvokeTarea ejecuta una acción de fila (delete, completar, fallar).
func (s *TareaService) InvokeTarea(ctx context.Context, action string, id uuid.UUID) error {
	t, err := s.GetTarea(ctx, id)
	if err != nil {
		return err
	}
	tbl := table.New(s.tareaTableConfig(ctx))
	tbl.SetData([]*domain.Tarea{t})
	return tbl.Invoke(action, id.String())
}

// Browser es una tabla de sesión que vuelve a consultar el repositorio cada vez que
// cambian la búsqueda o los filtros, conservando orden y página.
type Browser struct {
	*table.Table[*domain.Tarea]
	// Err guarda el error de la última recarga.
	Err error
}

func (s *TareaService) NewBrowser(ctx context.Context) (*Browser, error) {
	b := &Browser{}
	cfg := s.tareaTableConfig(ctx)
	cfg.PreserveFilters = true
	cfg.OnFilterChange = func(_ string, filters table.Filters) {
		list, err := s.ListTareas(ctx, serverCriteria(filters), nil, sharedQuery.Sort{})
		if err != nil {
			s.log.Warn("No se pudo recargar el navegador de tareas", zap.Error(err))
			b.Err = err
			return
		}
		b.Err = nil
		b.SetData(list)
	}
	b.Table = table.New(cfg)

	list, err := s.ListTareas(ctx, nil, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list tareas: %w", err)
	}
	b.SetData(list)
	return b, nil
}
