package application

import (
	"context"
	"fmt"
	"time"

	"github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiasAviso es la anticipación con la que un extintor pasa a "por vencer".
const DiasAviso = 30

type ExtintorService struct {
	repo       domain.ExtintorRepository
	sucursales domain.SucursalReader
	pageSize   table.PageSizer
	log        *zap.Logger
	now        func() time.Time
}

func NewExtintorService(repo domain.ExtintorRepository, sucursales domain.SucursalReader, pageSize table.PageSizer, log *zap.Logger) *ExtintorService {
	if pageSize == nil {
		pageSize = table.FixedPageSize(table.DefaultPageSize)
	}
	return &ExtintorService{repo: repo, sucursales: sucursales, pageSize: pageSize, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *ExtintorService) WithClock(now func() time.Time) *ExtintorService {
	s.now = now
	return s
}

type CreateExtintorInput struct {
	Codigo           string     `json:"codigo" binding:"required"`
	Tipo             string     `json:"tipo" binding:"required"`
	CapacidadKg      float64    `json:"capacidad_kg" binding:"required"`
	Fabricante       string     `json:"fabricante"`
	FechaFabricacion time.Time  `json:"fecha_fabricacion"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento" binding:"required"`
	SucursalID       *uuid.UUID `json:"sucursal_id"`
}

// UpdateExtintorInput usa punteros para que los campos sean opcionales.
type UpdateExtintorInput struct {
	Codigo           *string    `json:"codigo,omitempty"`
	Tipo             *string    `json:"tipo,omitempty"`
	CapacidadKg      *float64   `json:"capacidad_kg,omitempty"`
	Fabricante       *string    `json:"fabricante,omitempty"`
	FechaVencimiento *time.Time `json:"fecha_vencimiento,omitempty"`
	Activo           *bool      `json:"activo,omitempty"`
	SucursalID       *uuid.UUID `json:"sucursal_id,omitempty"`
	// QuitarSucursal desasigna el extintor (sucursal_id no puede expresar null con omitempty).
	QuitarSucursal bool `json:"quitar_sucursal,omitempty"`
}

func (s *ExtintorService) CreateExtintor(ctx context.Context, in CreateExtintorInput) (*domain.Extintor, error) {
	tipo, err := domain.ParseTipo(in.Tipo)
	if err != nil {
		return nil, err
	}
	e, err := domain.NewExtintor(in.Codigo, tipo, in.CapacidadKg, in.Fabricante, in.FechaFabricacion, in.FechaVencimiento, in.SucursalID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSucursal(ctx, e); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent("extintor", e.ID.String(), domain.ExtintorCreated, e.ToEvent())
	if err := s.repo.Create(ctx, e, evt); err != nil {
		return nil, err
	}
	s.log.Info("🧯 Extintor creado", zap.String("extintor_id", e.ID.String()), zap.String("codigo", e.Codigo))
	return e, nil
}

func (s *ExtintorService) UpdateExtintor(ctx context.Context, id uuid.UUID, in UpdateExtintorInput) (*domain.Extintor, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	codigo, fabricante, tipo, capacidad, sucursalID := e.Codigo, e.Fabricante, e.Tipo, e.CapacidadKg, e.SucursalID
	if in.Codigo != nil {
		codigo = *in.Codigo
	}
	if in.Fabricante != nil {
		fabricante = *in.Fabricante
	}
	if in.Tipo != nil {
		if tipo, err = domain.ParseTipo(*in.Tipo); err != nil {
			return nil, err
		}
	}
	if in.CapacidadKg != nil {
		capacidad = *in.CapacidadKg
	}
	if in.SucursalID != nil {
		sucursalID = in.SucursalID
	}
	if in.QuitarSucursal {
		sucursalID = nil
	}
	e.Update(codigo, fabricante, tipo, capacidad, sucursalID)
	if in.FechaVencimiento != nil {
		e.FechaVencimiento = in.FechaVencimiento.UTC()
	}
	if in.Activo != nil {
		e.Activo = *in.Activo
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSucursal(ctx, e); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent("extintor", e.ID.String(), domain.ExtintorUpdated, e.ToEvent())
	if err := s.repo.Update(ctx, e, evt); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExtintorService) DeleteExtintor(ctx context.Context, id uuid.UUID) error {
	evt := sharedDomain.NewOutboxEvent("extintor", id.String(), domain.ExtintorDeleted, sharedEvents.EntityDeleted{ID: id})
	if err := s.repo.DeleteByID(ctx, id, evt); err != nil {
		return err
	}
	s.log.Info("🗑️ Extintor eliminado", zap.String("extintor_id", id.String()))
	return nil
}

// Recargar registra una carga y corre el vencimiento un año.
func (s *ExtintorService) Recargar(ctx context.Context, id uuid.UUID) (*domain.Extintor, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Recargar(s.now())

	evt := sharedDomain.NewOutboxEvent("extintor", e.ID.String(), domain.ExtintorRecargado, e.ToEvent())
	if err := s.repo.Update(ctx, e, evt); err != nil {
		return nil, err
	}
	s.log.Info("🔄 Extintor recargado",
		zap.String("extintor_id", e.ID.String()),
		zap.Time("fecha_vencimiento", e.FechaVencimiento),
	)
	return e, nil
}

// GetExtintor devuelve el extintor con su sucursal hidratada.
func (s *ExtintorService) GetExtintor(ctx context.Context, id uuid.UUID) (*domain.Extintor, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, []*domain.Extintor{e})
	return e, nil
}

func (s *ExtintorService) ListExtintores(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Extintor, error) {
	list, err := s.repo.List(ctx, criteria, pagination, sort)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, list)
	return list, nil
}

func (s *ExtintorService) checkSucursal(ctx context.Context, e *domain.Extintor) error {
	if e.SucursalID == nil {
		return nil
	}
	if _, err := s.sucursales.GetSucursal(ctx, *e.SucursalID); err != nil {
		return fmt.Errorf("sucursal %s: %w", e.SucursalID, err)
	}
	return nil
}

// hydrate completa Sucursal con una sola consulta. Si el contexto de clientes falla,
// los extintores quedan sin hidratar.
func (s *ExtintorService) hydrate(ctx context.Context, list []*domain.Extintor) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, e := range list {
		if e.SucursalID != nil && !seen[*e.SucursalID] {
			seen[*e.SucursalID] = true
			ids = append(ids, *e.SucursalID)
		}
	}
	if len(ids) == 0 {
		return
	}

	byID, err := s.sucursales.Sucursales(ctx, ids)
	if err != nil {
		s.log.Warn("No se pudieron hidratar sucursales", zap.Int("count", len(ids)), zap.Error(err))
		return
	}
	for _, e := range list {
		if e.SucursalID != nil {
			e.Sucursal = byID[*e.SucursalID]
		}
	}
}

// ------------------ Tablas ------------------

func (s *ExtintorService) TableExtintores(ctx context.Context, st table.State) (*table.Table[*domain.Extintor], error) {
	list, err := s.ListExtintores(ctx, nil, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list extintores: %w", err)
	}
	t := table.New(s.extintorTableConfig(ctx))
	if err := t.Load(list, st); err != nil {
		return nil, err
	}
	return t, nil
}

// InvokeExtintor ejecuta una acción de fila (delete, recargar).
func (s *ExtintorService) InvokeExtintor(ctx context.Context, action string, id uuid.UUID) error {
	e, err := s.GetExtintor(ctx, id)
	if err != nil {
		return err
	}
	t := table.New(s.extintorTableConfig(ctx))
	t.SetData([]*domain.Extintor{e})
	return t.Invoke(action, id.String())
}

// VencimientosTable arma la tabla de extintores activos que vencen entre hoy y hoy+dias,
// ordenados por vencimiento.
func (s *ExtintorService) VencimientosTable(ctx context.Context, dias int) (*table.Table[*domain.Extintor], error) {
	if dias < 0 {
		dias = 0
	}
	list, err := s.ListExtintores(ctx, domain.ActivoCriteria{Activo: true}, nil, sharedQuery.Sort{Field: "fecha_vencimiento"})
	if err != nil {
		return nil, fmt.Errorf("list extintores: %w", err)
	}

	y, m, d := s.now().UTC().Date()
	desde := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 0, dias)

	cfg := s.extintorTableConfig(ctx)
	cfg.Title = "Vencimientos"
	cfg.Actions = nil
	cfg.OnDelete = nil
	cfg.ItemsPerPage = max(len(list), 1)
	cfg.EmptyMessage = fmt.Sprintf("No hay extintores que venzan en los próximos %d días", dias)
	cfg.InitialFilters = table.Filters{"fecha_vencimiento": table.DateRange{From: &desde, To: &hasta}}

	t := table.New(cfg)
	t.SetData(list)
	if err := t.ToggleSort("fecha_vencimiento"); err != nil {
		return nil, err
	}
	return t, nil
}

// PorVencer lista los extintores activos que vencen en los próximos dias.
func (s *ExtintorService) PorVencer(ctx context.Context, dias int) ([]*domain.Extintor, error) {
	t, err := s.VencimientosTable(ctx, dias)
	if err != nil {
		return nil, err
	}
	return t.Filtered(), nil
}
