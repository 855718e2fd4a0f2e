package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/matafuegos/internal/usuario/application"
	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"
)

type UsuarioService interface {
	CreateUsuario(ctx context.Context, in application.CreateUsuarioInput) (*usuarioDomain.Usuario, error)
	UpdateUsuario(ctx context.Context, id uuid.UUID, in application.UpdateUsuarioInput) (*usuarioDomain.Usuario, error)
	GetUsuario(ctx context.Context, id uuid.UUID) (*usuarioDomain.Usuario, error)
}

// UsuarioConsumer replica usuarios publicados por otra instalación.
type UsuarioConsumer struct {
	service UsuarioService
	log     *zap.Logger
	timeout time.Duration
}

func NewUsuarioConsumer(service UsuarioService, logger *zap.Logger) *UsuarioConsumer {
	return &UsuarioConsumer{service: service, log: logger, timeout: 500 * time.Millisecond}
}

var _ sharedBus.MessageHandler = (*UsuarioConsumer)(nil)

func (c *UsuarioConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case usuarioDomain.UsuarioCreated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.UsuarioCreated) {
			c.withContext(ctx, evt.ID, func(ctx context.Context) error {
				// Buscar antes de crear: un evento repetido no duplica.
				_, err := c.service.GetUsuario(ctx, evt.ID)
				if err == nil {
					c.log.Info("Evento 'usuario.created' duplicado ignorado", zap.String("usuario_id", evt.ID.String()))
					return nil
				}
				if !errors.Is(err, usuarioDomain.ErrUsuarioNotFound) {
					return err
				}
				_, err = c.service.CreateUsuario(ctx, application.CreateUsuarioInput{
					ID: evt.ID, Email: evt.Email, Nombre: evt.Nombre, Rol: evt.Rol, BirthDate: evt.BirthDate,
				})
				return err
			}, "Usuario creado por evento")
		})

	case usuarioDomain.UsuarioUpdated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.UsuarioUpdated) {
			c.withContext(ctx, evt.ID, func(ctx context.Context) error {
				current, err := c.service.GetUsuario(ctx, evt.ID)
				if err != nil {
					return err
				}
				// Sin cambios no se escribe: el propio evento vuelve por el bus.
				if current.Email == evt.Email && current.Nombre == evt.Nombre && string(current.Rol) == evt.Rol &&
					current.Activo == evt.Activo && current.BirthDate.Equal(evt.BirthDate) {
					c.log.Debug("Evento 'usuario.updated' sin cambios", zap.String("usuario_id", evt.ID.String()))
					return nil
				}
				_, err = c.service.UpdateUsuario(ctx, evt.ID, application.UpdateUsuarioInput{
					Email: &evt.Email, Nombre: &evt.Nombre, Rol: &evt.Rol, Activo: &evt.Activo, BirthDate: &evt.BirthDate,
				})
				return err
			}, "Usuario actualizado por evento")
		})

	default:
		c.log.Debug("Evento ignorado", zap.String("type", base.Type))
	}
}

// withContext ejecuta la acción con timeout propio y loguea el resultado.
func (c *UsuarioConsumer) withContext(ctx context.Context, id uuid.UUID, action func(ctx context.Context) error, successMsg string) {
	ctxUsuario, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := action(ctxUsuario); err != nil {
		// La base puede detectar el duplicado si dos eventos llegan a la vez.
		if errors.Is(err, usuarioDomain.ErrUsuarioAlreadyExists) {
			c.log.Info("Evento 'usuario.created' duplicado gestionado por la BBDD", zap.String("usuario_id", id.String()))
			return
		}
		c.log.Warn("Failed to process usuario event", zap.String("usuario_id", id.String()), zap.Error(err))
		return
	}
	c.log.Info(successMsg, zap.String("usuario_id", id.String()))
}
