package domain

import (
	"fmt"
	"strings"
	"time"

	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"
	"github.com/google/uuid"
)

type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoCompletada Estado = "completada"
	EstadoFallida    Estado = "fallida"
)

var Estados = []Estado{EstadoPendiente, EstadoCompletada, EstadoFallida}

type Tipo string

const (
	TipoInspeccion    Tipo = "inspeccion"
	TipoMantenimiento Tipo = "mantenimiento"
	TipoRelevamiento  Tipo = "relevamiento"
)

var Tipos = []Tipo{TipoInspeccion, TipoMantenimiento, TipoRelevamiento}

func ParseTipo(s string) (Tipo, error) {
	t := Tipo(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tipos {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: tipo %q", ErrInvalidTarea, s)
}

func ParseEstado(s string) (Estado, error) {
	e := Estado(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Estados {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: estado %q", ErrInvalidTarea, s)
}

// Tarea es un trabajo de campo (inspección, mantenimiento o relevamiento) asignado a un usuario.
type Tarea struct {
	ID              uuid.UUID  `json:"id"`
	Titulo          string     `json:"titulo"`
	Descripcion     string     `json:"descripcion"`
	Tipo            Tipo       `json:"tipo"`
	AsignadoID      uuid.UUID  `json:"asignado_id"`
	Estado          Estado     `json:"estado"`
	SucursalID      *uuid.UUID `json:"sucursal_id,omitempty"`
	FechaProgramada *time.Time `json:"fecha_programada,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Se hidrata al leer; nil si no se cargó.
	Asignado *Responsable `json:"asignado,omitempty"`
}

// Responsable es la vista mínima del usuario asignado.
type Responsable struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
}

func NewTarea(titulo, descripcion string, tipo Tipo, asignadoID uuid.UUID, sucursalID *uuid.UUID, programada *time.Time) (*Tarea, error) {
	now := time.Now().UTC()
	t := &Tarea{
		ID:              uuid.New(),
		Titulo:          strings.TrimSpace(titulo),
		Descripcion:     strings.TrimSpace(descripcion),
		Tipo:            tipo,
		AsignadoID:      asignadoID,
		Estado:          EstadoPendiente,
		SucursalID:      sucursalID,
		FechaProgramada: utc(programada),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tarea) Validate() error {
	if t.Titulo == "" {
		return fmt.Errorf("%w: titulo is required", ErrInvalidTarea)
	}
	if t.AsignadoID == uuid.Nil {
		return fmt.Errorf("%w: asignado_id is required", ErrInvalidTarea)
	}
	if _, err := ParseTipo(string(t.Tipo)); err != nil {
		return err
	}
	if _, err := ParseEstado(string(t.Estado)); err != nil {
		return err
	}
	return nil
}

func (t *Tarea) PartitionKey() string {
	return t.ID.String()
}

// --- Métodos de dominio ---

// Complete sólo aplica a tareas pendientes.
func (t *Tarea) Complete() error {
	if t.Estado != EstadoPendiente {
		return fmt.Errorf("%w: estado %s", ErrTareaCannotComplete, t.Estado)
	}
	t.Estado = EstadoCompletada
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Tarea) Fail() error {
	if t.Estado != EstadoPendiente {
		return fmt.Errorf("%w: estado %s", ErrTareaCannotComplete, t.Estado)
	}
	t.Estado = EstadoFallida
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Tarea) Update(titulo, descripcion string, programada *time.Time) {
	t.Titulo = strings.TrimSpace(titulo)
	t.Descripcion = strings.TrimSpace(descripcion)
	t.FechaProgramada = utc(programada)
	t.UpdatedAt = time.Now().UTC()
}

func utc(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

var _ sharedBus.Keyer = (*Tarea)(nil)
