package events

import (
	"time"

	"github.com/google/uuid"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.

type ClienteChanged struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	CUIT   string    `json:"cuit"`
	Activo bool      `json:"activo"`
}

type SucursalCreated struct {
	ID        uuid.UUID `json:"id"`
	ClienteID uuid.UUID `json:"cliente_id"`
	Nombre    string    `json:"nombre"`
	Localidad string    `json:"localidad"`
}

type UsuarioCreated struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Rol       string    `json:"rol"`
	BirthDate time.Time `json:"birth_date"`
}

type UsuarioUpdated struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Rol       string    `json:"rol"`
	Activo    bool      `json:"activo"`
	BirthDate time.Time `json:"birth_date"`
}

type TareaCreated struct {
	ID              uuid.UUID  `json:"id"`
	Titulo          string     `json:"titulo"`
	Descripcion     string     `json:"descripcion"`
	Tipo            string     `json:"tipo"`
	AsignadoID      uuid.UUID  `json:"asignado_id"`
	SucursalID      *uuid.UUID `json:"sucursal_id,omitempty"`
	FechaProgramada *time.Time `json:"fecha_programada,omitempty"`
}

type TareaUpdated struct {
	ID          uuid.UUID `json:"id"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion"`
	Tipo        string    `json:"tipo"`
	AsignadoID  uuid.UUID `json:"asignado_id"`
	Estado      string    `json:"estado"`
}

type ExtintorChanged struct {
	ID               uuid.UUID  `json:"id"`
	Codigo           string     `json:"codigo"`
	Tipo             string     `json:"tipo"`
	SucursalID       *uuid.UUID `json:"sucursal_id,omitempty"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento"`
	Activo           bool       `json:"activo"`
}

// ExtintorPorVencer lo emite el escaneo diario de vencimientos.
type ExtintorPorVencer struct {
	ID               uuid.UUID  `json:"id"`
	Codigo           string     `json:"codigo"`
	SucursalID       *uuid.UUID `json:"sucursal_id,omitempty"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento"`
	DiasRestantes    int        `json:"dias_restantes"`
}
