package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/matafuegos/shared/events"
)

const (
	TareaCreated = "tarea.created"
	TareaUpdated = "tarea.updated"
	TareaDeleted = "tarea.deleted"
)

const TareaTopic = "tarea"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		TareaCreated: {Type: reflect.TypeOf(sharedEvents.TareaCreated{}), Topic: TareaTopic},
		TareaUpdated: {Type: reflect.TypeOf(sharedEvents.TareaUpdated{}), Topic: TareaTopic},
		TareaDeleted: {Type: reflect.TypeOf(sharedEvents.EntityDeleted{}), Topic: TareaTopic},
	}
}

func (t *Tarea) CreatedEvent() sharedEvents.TareaCreated {
	return sharedEvents.TareaCreated{
		ID: t.ID, Titulo: t.Titulo, Descripcion: t.Descripcion, Tipo: string(t.Tipo),
		AsignadoID: t.AsignadoID, SucursalID: t.SucursalID, FechaProgramada: t.FechaProgramada,
	}
}

func (t *Tarea) UpdatedEvent() sharedEvents.TareaUpdated {
	return sharedEvents.TareaUpdated{
		ID: t.ID, Titulo: t.Titulo, Descripcion: t.Descripcion, Tipo: string(t.Tipo),
		AsignadoID: t.AsignadoID, Estado: string(t.Estado),
	}
}
