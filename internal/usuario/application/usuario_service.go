package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davicafu/matafuegos/internal/usuario/domain"
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
const DefaultCacheTTL = 60

// UsuarioService define los casos de uso relacionados con Usuario.
type UsuarioService struct {
	repo     domain.UsuarioRepository
	cache    cache.Cache
	ttl      int
	pageSize table.PageSizer
	log      *zap.Logger
}

// NewUsuarioService acepta cache nil (sin caché).
func NewUsuarioService(repo domain.UsuarioRepository, c cache.Cache, ttl int, pageSize table.PageSizer, log *zap.Logger) *UsuarioService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if pageSize == nil {
		pageSize = table.FixedPageSize(table.DefaultPageSize)
	}
	return &UsuarioService{repo: repo, cache: c, ttl: ttl, pageSize: pageSize, log: log}
}

type CreateUsuarioInput struct {
	// ID opcional: los usuarios replicados por evento conservan el suyo.
	ID        uuid.UUID `json:"-"`
	Email     string    `json:"email" binding:"required,email"`
	Nombre    string    `json:"nombre" binding:"required"`
	Rol       string    `json:"rol" binding:"required"`
	BirthDate time.Time `json:"birth_date"`
}

type UpdateUsuarioInput struct {
	Email     *string    `json:"email,omitempty"`
	Nombre    *string    `json:"nombre,omitempty"`
	Rol       *string    `json:"rol,omitempty"`
	Activo    *bool      `json:"activo,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

func (s *UsuarioService) CreateUsuario(ctx context.Context, in CreateUsuarioInput) (*domain.Usuario, error) {
	rol, err := domain.ParseRol(in.Rol)
	if err != nil {
		return nil, err
	}
	u, err := domain.NewUsuario(in.Email, in.Nombre, rol, in.BirthDate)
	if err != nil {
		return nil, err
	}
	if in.ID != uuid.Nil {
		u.ID = in.ID
	}

	evt := sharedDomain.NewOutboxEvent("usuario", u.ID.String(), domain.UsuarioCreated, u.CreatedEvent())
	if err := s.repo.Create(ctx, u, evt); err != nil {
		return nil, err
	}
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(u.ID), u, s.ttl, s.log)
	s.log.Info("👤 Usuario creado", zap.String("usuario_id", u.ID.String()), zap.String("rol", string(u.Rol)))
	return u, nil
}

func (s *UsuarioService) UpdateUsuario(ctx context.Context, id uuid.UUID, in UpdateUsuarioInput) (*domain.Usuario, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Nombre != nil {
		u.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Rol != nil {
		if u.Rol, err = domain.ParseRol(*in.Rol); err != nil {
			return nil, err
		}
	}
	if in.Activo != nil {
		u.Activo = *in.Activo
	}
	if in.BirthDate != nil {
		u.BirthDate = in.BirthDate.UTC()
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent("usuario", u.ID.String(), domain.UsuarioUpdated, u.UpdatedEvent())
	if err := s.repo.Update(ctx, u, evt); err != nil {
		return nil, err
	}
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(u.ID), u, s.ttl, s.log)
	return u, nil
}

func (s *UsuarioService) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	evt := sharedDomain.NewOutboxEvent("usuario", id.String(), domain.UsuarioDeleted, sharedEvents.EntityDeleted{ID: id})
	if err := s.repo.DeleteByID(ctx, id, evt); err != nil {
		return err
	}
	cache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	s.log.Info("🗑️ Usuario eliminado", zap.String("usuario_id", id.String()))
	return nil
}

// GetUsuario obtiene un usuario (primero intenta desde cache).
func (s *UsuarioService) GetUsuario(ctx context.Context, id uuid.UUID) (*domain.Usuario, error) {
	return cache.GetOrLoad(ctx, s.cache, domain.CacheKeyByID(id), s.ttl, s.log, func(ctx context.Context) (*domain.Usuario, error) {
		u, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrUsuarioNotFound) {
			return nil, sharedUtils.Permanent(err)
		}
		return u, err
	})
}

func (s *UsuarioService) ListUsuarios(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Usuario, error) {
	return s.repo.List(ctx, criteria, pagination, sort)
}

// ------------------ Tablas ------------------

func (s *UsuarioService) TableUsuarios(ctx context.Context, st table.State) (*table.Table[*domain.Usuario], error) {
	list, err := s.repo.List(ctx, nil, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	t := table.New(s.usuarioTableConfig(ctx))
	if err := t.Load(list, st); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *UsuarioService) InvokeUsuario(ctx context.Context, action string, id uuid.UUID) error {
	u, err := s.GetUsuario(ctx, id)
	if err != nil {
		return err
	}
	t := table.New(s.usuarioTableConfig(ctx))
	t.SetData([]*domain.Usuario{u})
	return t.Invoke(action, id.String())
}
