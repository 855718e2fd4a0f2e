package application

import (
	"context"
	"fmt"

	"github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"

	"go.uber.org/zap"
)

// VencimientoScanner busca extintores próximos a vencer y publica un aviso por cada uno.
type VencimientoScanner struct {
	service   *ExtintorService
	publisher sharedBus.EventPublisher
	dias      int
	log       *zap.Logger
}

func NewVencimientoScanner(service *ExtintorService, publisher sharedBus.EventPublisher, dias int, log *zap.Logger) *VencimientoScanner {
	if dias <= 0 {
		dias = DiasAviso
	}
	return &VencimientoScanner{service: service, publisher: publisher, dias: dias, log: log}
}

// Scan devuelve cuántos avisos se publicaron. Un fallo al publicar no corta el escaneo.
func (s *VencimientoScanner) Scan(ctx context.Context) (int, error) {
	list, err := s.service.PorVencer(ctx, s.dias)
	if err != nil {
		return 0, fmt.Errorf("scan vencimientos: %w", err)
	}

	now := s.service.now()
	published := 0
	for _, e := range list {
		payload := sharedEvents.ExtintorPorVencer{
			ID:               e.ID,
			Codigo:           e.Codigo,
			SucursalID:       e.SucursalID,
			FechaVencimiento: e.FechaVencimiento,
			DiasRestantes:    e.DiasParaVencer(now),
		}
		evt, err := sharedEvents.NewIntegrationEvent(domain.ExtintorPorVencer, domain.ExtintorTopic, e.ID.String(), payload)
		if err != nil {
			s.log.Error("Error serializando aviso de vencimiento", zap.String("extintor_id", e.ID.String()), zap.Error(err))
			continue
		}
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.log.Error("Error publicando aviso de vencimiento", zap.String("extintor_id", e.ID.String()), zap.Error(err))
			continue
		}
		published++
	}

	s.log.Info("🧯 Escaneo de vencimientos",
		zap.Int("dias", s.dias),
		zap.Int("encontrados", len(list)),
		zap.Int("publicados", published),
	)
	return published, nil
}

// Run adapta Scan a la firma de las tareas programadas.
func (s *VencimientoScanner) Run(ctx context.Context) error {
	_, err := s.Scan(ctx)
	return err
}
