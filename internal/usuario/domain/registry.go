package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/matafuegos/shared/events"
)

const (
	UsuarioCreated = "usuario.created"
	UsuarioUpdated = "usuario.updated"
	UsuarioDeleted = "usuario.deleted"
)

const UsuarioTopic = "usuario"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		UsuarioCreated: {Type: reflect.TypeOf(sharedEvents.UsuarioCreated{}), Topic: UsuarioTopic},
		UsuarioUpdated: {Type: reflect.TypeOf(sharedEvents.UsuarioUpdated{}), Topic: UsuarioTopic},
		UsuarioDeleted: {Type: reflect.TypeOf(sharedEvents.EntityDeleted{}), Topic: UsuarioTopic},
	}
}

func (u *Usuario) CreatedEvent() sharedEvents.UsuarioCreated {
	return sharedEvents.UsuarioCreated{ID: u.ID, Email: u.Email, Nombre: u.Nombre, Rol: string(u.Rol), BirthDate: u.BirthDate}
}

func (u *Usuario) UpdatedEvent() sharedEvents.UsuarioUpdated {
	return sharedEvents.UsuarioUpdated{ID: u.ID, Email: u.Email, Nombre: u.Nombre, Rol: string(u.Rol), Activo: u.Activo, BirthDate: u.BirthDate}
}
