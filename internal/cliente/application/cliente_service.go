package application

import (
	"context"
	"fmt"

	"github.com/davicafu/matafuegos/internal/cliente/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClienteService define los casos de uso de clientes y sucursales.
type ClienteService struct {
	repo       domain.ClienteRepository
	sucursales domain.SucursalRepository
	pageSize   table.PageSizer
	log        *zap.Logger
}

func NewClienteService(repo domain.ClienteRepository, sucursales domain.SucursalRepository, pageSize table.PageSizer, log *zap.Logger) *ClienteService {
	if pageSize == nil {
		pageSize = table.FixedPageSize(table.DefaultPageSize)
	}
	return &ClienteService{repo: repo, sucursales: sucursales, pageSize: pageSize, log: log}
}

type CreateClienteInput struct {
	Nombre   string `json:"nombre" binding:"required"`
	CUIT     string `json:"cuit"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

func (s *ClienteService) CreateCliente(ctx context.Context, in CreateClienteInput) (*domain.Cliente, error) {
	c, err := domain.NewCliente(in.Nombre, in.CUIT, in.Email, in.Telefono)
	if err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent("cliente", c.ID.String(), domain.ClienteCreated, c.ToEvent())
	if err := s.repo.Create(ctx, c, evt); err != nil {
		return nil, err
	}
	s.log.Info("🏢 Cliente creado", zap.String("cliente_id", c.ID.String()), zap.String("nombre", c.Nombre))
	return c, nil
}

func (s *ClienteService) UpdateCliente(ctx context.Context, c *domain.Cliente) error {
	c.CUIT = domain.NormalizeCUIT(c.CUIT)
	if err := c.Validate(); err != nil {
		return err
	}
	evt := sharedDomain.NewOutboxEvent("cliente", c.ID.String(), domain.ClienteUpdated, c.ToEvent())
	return s.repo.Update(ctx, c, evt)
}

func (s *ClienteService) DeleteCliente(ctx context.Context, id uuid.UUID) error {
	evt := sharedDomain.NewOutboxEvent("cliente", id.String(), domain.ClienteDeleted, sharedEvents.EntityDeleted{ID: id})
	if err := s.repo.DeleteByID(ctx, id, evt); err != nil {
		return err
	}
	s.log.Info("🗑️ Cliente eliminado", zap.String("cliente_id", id.String()))
	return nil
}

func (s *ClienteService) GetCliente(ctx context.Context, id uuid.UUID) (*domain.Cliente, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClienteService) ListClientes(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Cliente, error) {
	return s.repo.List(ctx, criteria, pagination, sort)
}

// ------------------ Sucursales ------------------

type CreateSucursalInput struct {
	ClienteID uuid.UUID `json:"cliente_id" binding:"required"`
	Nombre    string    `json:"nombre" binding:"required"`
	Direccion string    `json:"direccion"`
	Localidad string    `json:"localidad"`
}

func (s *ClienteService) CreateSucursal(ctx context.Context, in CreateSucursalInput) (*domain.Sucursal, error) {
	suc, err := domain.NewSucursal(in.ClienteID, in.Nombre, in.Direccion, in.Localidad)
	if err != nil {
		return nil, err
	}
	evt := sharedDomain.NewOutboxEvent("sucursal", suc.ID.String(), domain.SucursalCreated, suc.ToEvent())
	if err := s.sucursales.CreateSucursal(ctx, suc, evt); err != nil {
		return nil, err
	}
	return s.sucursales.GetSucursal(ctx, suc.ID)
}

// GetSucursal devuelve la sucursal con su cliente hidratado.
func (s *ClienteService) GetSucursal(ctx context.Context, id uuid.UUID) (*domain.Sucursal, error) {
	return s.sucursales.GetSucursal(ctx, id)
}

func (s *ClienteService) ListSucursales(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Sucursal, error) {
	return s.sucursales.ListSucursales(ctx, criteria, pagination, sort)
}

// ------------------ Tablas ------------------

// TableClientes carga todos los clientes y aplica el estado de la tabla en memoria.
func (s *ClienteService) TableClientes(ctx context.Context, st table.State) (*table.Table[*domain.Cliente], error) {
	clientes, err := s.repo.List(ctx, nil, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	t := table.New(s.clienteTableConfig(ctx))
	if err := t.Load(clientes, st); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ClienteService) TableSucursales(ctx context.Context, st table.State) (*table.Table[*domain.Sucursal], error) {
	sucursales, err := s.sucursales.ListSucursales(ctx, nil, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list sucursales: %w", err)
	}
	t := table.New(s.sucursalTableConfig())
	if err := t.Load(sucursales, st); err != nil {
		return nil, err
	}
	return t, nil
}

// InvokeCliente ejecuta una acción de fila sobre un cliente.
func (s *ClienteService) InvokeCliente(ctx context.Context, action string, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t := table.New(s.clienteTableConfig(ctx))
	t.SetData([]*domain.Cliente{c})
	return t.Invoke(action, id.String())
}
