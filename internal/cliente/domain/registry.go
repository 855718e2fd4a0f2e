package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/matafuegos/shared/events"
)

const (
	ClienteCreated  = "cliente.created"
	ClienteUpdated  = "cliente.updated"
	ClienteDeleted  = "cliente.deleted"
	SucursalCreated = "sucursal.created"
)

const ClienteTopic = "cliente"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		ClienteCreated:  {Type: reflect.TypeOf(sharedEvents.ClienteChanged{}), Topic: ClienteTopic},
		ClienteUpdated:  {Type: reflect.TypeOf(sharedEvents.ClienteChanged{}), Topic: ClienteTopic},
		ClienteDeleted:  {Type: reflect.TypeOf(sharedEvents.EntityDeleted{}), Topic: ClienteTopic},
		SucursalCreated: {Type: reflect.TypeOf(sharedEvents.SucursalCreated{}), Topic: ClienteTopic},
	}
}

// ToEvent arma el contrato de integración del cliente.
func (c *Cliente) ToEvent() sharedEvents.ClienteChanged {
	return sharedEvents.ClienteChanged{ID: c.ID, Nombre: c.Nombre, CUIT: c.CUIT, Activo: c.Activo}
}

func (s *Sucursal) ToEvent() sharedEvents.SucursalCreated {
	return sharedEvents.SucursalCreated{ID: s.ID, ClienteID: s.ClienteID, Nombre: s.Nombre, Localidad: s.Localidad}
}
