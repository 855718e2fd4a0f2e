package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/matafuegos/internal/tarea/application"
	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"
)

// TareaService es la interfaz que define los métodos que el consumidor necesita.
type TareaService interface {
	CreateTarea(ctx context.Context, in application.CreateTareaInput) (*tareaDomain.Tarea, error)
	UpdateTarea(ctx context.Context, id uuid.UUID, in application.UpdateTareaInput) (*tareaDomain.Tarea, error)
	CompleteTarea(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error)
	FailTarea(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error)
	DeleteTarea(ctx context.Context, id uuid.UUID) error
	GetTarea(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error)
}

// TareaConsumer replica tareas publicadas por otra instalación.
type TareaConsumer struct {
	service TareaService
	log     *zap.Logger
	timeout time.Duration
}

func NewTareaConsumer(service TareaService, logger *zap.Logger) *TareaConsumer {
	return &TareaConsumer{service: service, log: logger, timeout: 500 * time.Millisecond}
}

var _ sharedBus.MessageHandler = (*TareaConsumer)(nil)

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *TareaConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for tarea", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case tareaDomain.TareaCreated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.TareaCreated) {
			c.withContext(ctx, evt.ID, func(ctx context.Context) error {
				// Buscar antes de crear
				_, err := c.service.GetTarea(ctx, evt.ID)
				if err == nil {
					c.log.Info("Evento 'tarea.created' duplicado ignorado", zap.String("tarea_id", evt.ID.String()))
					return nil
				}
				if !errors.Is(err, tareaDomain.ErrTareaNotFound) {
					return err
				}
				_, err = c.service.CreateTarea(ctx, application.CreateTareaInput{
					ID: evt.ID, Titulo: evt.Titulo, Descripcion: evt.Descripcion, Tipo: evt.Tipo,
					AsignadoID: evt.AsignadoID, SucursalID: evt.SucursalID, FechaProgramada: evt.FechaProgramada,
				})
				return err
			}, "Tarea creada por evento")
		})

	case tareaDomain.TareaUpdated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.TareaUpdated) {
			c.withContext(ctx, evt.ID, func(ctx context.Context) error {
				return c.applyUpdate(ctx, evt)
			}, "Tarea actualizada por evento")
		})

	case tareaDomain.TareaDeleted:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.EntityDeleted) {
			c.withContext(ctx, evt.ID, func(ctx context.Context) error {
				err := c.service.DeleteTarea(ctx, evt.ID)
				if errors.Is(err, tareaDomain.ErrTareaNotFound) {
					return nil
				}
				return err
			}, "Tarea eliminada por evento")
		})

	default:
		c.log.Debug("Evento ignorado", zap.String("type", base.Type), zap.String("key", key))
	}
}

// applyUpdate sólo escribe si el evento trae cambios: el propio evento vuelve por el bus.
func (c *TareaConsumer) applyUpdate(ctx context.Context, evt sharedEvents.TareaUpdated) error {
	current, err := c.service.GetTarea(ctx, evt.ID)
	if err != nil {
		return err
	}

	if current.Titulo != evt.Titulo || current.Descripcion != evt.Descripcion ||
		string(current.Tipo) != evt.Tipo || current.AsignadoID != evt.AsignadoID {
		if _, err := c.service.UpdateTarea(ctx, evt.ID, application.UpdateTareaInput{
			Titulo: &evt.Titulo, Descripcion: &evt.Descripcion, Tipo: &evt.Tipo, AsignadoID: &evt.AsignadoID,
		}); err != nil {
			return err
		}
	}

	if string(current.Estado) == evt.Estado {
		return nil
	}
	switch tareaDomain.Estado(evt.Estado) {
	case tareaDomain.EstadoCompletada:
		_, err = c.service.CompleteTarea(ctx, evt.ID)
	case tareaDomain.EstadoFallida:
		_, err = c.service.FailTarea(ctx, evt.ID)
	default:
		c.log.Warn("Transición de estado no replicable",
			zap.String("tarea_id", evt.ID.String()),
			zap.String("from", string(current.Estado)),
			zap.String("to", evt.Estado),
		)
	}
	return err
}

// withContext ejecuta la acción con timeout propio y loguea el resultado.
func (c *TareaConsumer) withContext(ctx context.Context, id uuid.UUID, action func(ctx context.Context) error, successMsg string) {
	ctxTarea, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := action(ctxTarea); err != nil {
		if errors.Is(err, tareaDomain.ErrTareaAlreadyExists) {
			c.log.Info("Evento 'tarea.created' duplicado gestionado por la BBDD", zap.String("tarea_id", id.String()))
			return
		}
		c.log.Warn("Failed to process tarea event", zap.String("tarea_id", id.String()), zap.Error(err))
		return
	}
	c.log.Info(successMsg, zap.String("tarea_id", id.String()))
}
