package application

import (
	"context"
	"errors"
	"sync"

	"github.com/davicafu/matafuegos/internal/preferences/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"go.uber.org/zap"
)

var ErrNotInitialized = errors.New("preferences store not initialized")

// Store mantiene las preferencias en memoria y las persiste en cada Update.
type Store struct {
	persistence domain.Persistence
	log         *zap.Logger

	mu      sync.RWMutex
	current domain.Settings
	ready   bool
}

var _ table.PageSizer = (*Store)(nil)

func NewStore(p domain.Persistence, log *zap.Logger) *Store {
	return &Store{persistence: p, log: log, current: domain.Defaults()}
}

// Init carga lo persistido. Sin datos previos, o con datos inválidos, quedan los valores por defecto.
func (s *Store) Init(ctx context.Context) error {
	loaded, err := s.persistence.Load(ctx)
	if err != nil {
		return err
	}

	settings := domain.Defaults()
	if loaded != nil {
		candidate := *loaded
		if nerr := candidate.Normalize(); nerr != nil {
			s.log.Warn("⚠️ Preferencias persistidas inválidas, se usan los valores por defecto", zap.Error(nerr))
		} else {
			settings = candidate
		}
	}

	s.mu.Lock()
	s.current = settings
	s.ready = true
	s.mu.Unlock()

	s.log.Info("Preferencias cargadas",
		zap.String("theme", string(settings.Theme)),
		zap.String("language", settings.Language),
		zap.Int("items_per_page", settings.ItemsPerPage),
	)
	return nil
}

// Get devuelve una copia de las preferencias actuales.
func (s *Store) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update aplica fn sobre una copia, valida y persiste. Si algo falla el estado no cambia.
func (s *Store) Update(ctx context.Context, fn func(*domain.Settings)) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return s.current, ErrNotInitialized
	}

	next := s.current
	fn(&next)
	if err := next.Normalize(); err != nil {
		return s.current, err
	}
	if err := s.persistence.Save(ctx, next); err != nil {
		s.log.Error("Error guardando preferencias", zap.Error(err))
		return s.current, err
	}

	s.current = next
	return next, nil
}

// ItemsPerPage es el tamaño de página por defecto de todas las tablas.
func (s *Store) ItemsPerPage() int {
	return s.Get().ItemsPerPage
}
