package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/matafuegos/shared/events"
)

const (
	ExtintorCreated   = "extintor.created"
	ExtintorUpdated   = "extintor.updated"
	ExtintorDeleted   = "extintor.deleted"
	ExtintorRecargado = "extintor.recargado"
	ExtintorPorVencer = "extintor.por_vencer"
)

const ExtintorTopic = "extintor"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	changed := reflect.TypeOf(sharedEvents.ExtintorChanged{})
	return map[string]sharedEvents.EventMetadata{
		ExtintorCreated:   {Type: changed, Topic: ExtintorTopic},
		ExtintorUpdated:   {Type: changed, Topic: ExtintorTopic},
		ExtintorRecargado: {Type: changed, Topic: ExtintorTopic},
		ExtintorDeleted:   {Type: reflect.TypeOf(sharedEvents.EntityDeleted{}), Topic: ExtintorTopic},
	}
}

func (e *Extintor) ToEvent() sharedEvents.ExtintorChanged {
	return sharedEvents.ExtintorChanged{
		ID:               e.ID,
		Codigo:           e.Codigo,
		Tipo:             string(e.Tipo),
		SucursalID:       e.SucursalID,
		FechaVencimiento: e.FechaVencimiento,
		Activo:           e.Activo,
	}
}
