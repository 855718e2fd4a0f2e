package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Tipo string

const (
	TipoABC  Tipo = "ABC"
	TipoBC   Tipo = "BC"
	TipoCO2  Tipo = "CO2"
	TipoAgua Tipo = "AGUA"
	TipoHCFC Tipo = "HCFC"
	TipoK    Tipo = "K"
)

// Tipos lista los agentes extintores en el orden en que se muestran.
var Tipos = []Tipo{TipoABC, TipoBC, TipoCO2, TipoAgua, TipoHCFC, TipoK}

func ParseTipo(s string) (Tipo, error) {
	t := Tipo(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Tipos {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: tipo %q", ErrInvalidExtintor, s)
}

// Vida útil de una carga.
const VidaUtilCarga = 1 // años

type Extintor struct {
	ID               uuid.UUID  `json:"id"`
	Codigo           string     `json:"codigo"`
	Tipo             Tipo       `json:"tipo"`
	CapacidadKg      float64    `json:"capacidad_kg"`
	Fabricante       string     `json:"fabricante"`
	FechaFabricacion time.Time  `json:"fecha_fabricacion"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento"`
	UltimaCarga      *time.Time `json:"ultima_carga,omitempty"`
	Activo           bool       `json:"activo"`
	SucursalID       *uuid.UUID `json:"sucursal_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Sucursal se hidrata al leer; no se persiste.
	Sucursal *Sucursal `json:"sucursal,omitempty"`
}

// Sucursal es la vista de sólo lectura de una sucursal del contexto de clientes.
type Sucursal struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Localidad string    `json:"localidad"`
	Cliente   *Cliente  `json:"cliente,omitempty"`
}

type Cliente struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}

func NewExtintor(codigo string, tipo Tipo, capacidadKg float64, fabricante string, fabricacion, vencimiento time.Time, sucursalID *uuid.UUID) (*Extintor, error) {
	now := time.Now().UTC()
	e := &Extintor{
		ID:               uuid.New(),
		Codigo:           strings.ToUpper(strings.TrimSpace(codigo)),
		Tipo:             tipo,
		CapacidadKg:      capacidadKg,
		Fabricante:       strings.TrimSpace(fabricante),
		FechaFabricacion: fabricacion.UTC(),
		FechaVencimiento: vencimiento.UTC(),
		Activo:           true,
		SucursalID:       sucursalID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Extintor) Validate() error {
	if e.Codigo == "" {
		return fmt.Errorf("%w: codigo is required", ErrInvalidExtintor)
	}
	if _, err := ParseTipo(string(e.Tipo)); err != nil {
		return err
	}
	if e.CapacidadKg <= 0 {
		return fmt.Errorf("%w: capacidad_kg must be positive", ErrInvalidExtintor)
	}
	if e.FechaVencimiento.IsZero() {
		return fmt.Errorf("%w: fecha_vencimiento is required", ErrInvalidExtintor)
	}
	if !e.FechaFabricacion.IsZero() && e.FechaVencimiento.Before(e.FechaFabricacion) {
		return fmt.Errorf("%w: fecha_vencimiento before fecha_fabricacion", ErrInvalidExtintor)
	}
	return nil
}

// --- Métodos de dominio ---

// DiasParaVencer cuenta días calendario hasta el vencimiento; negativo si ya venció.
func (e *Extintor) DiasParaVencer(now time.Time) int {
	hoy := truncateDay(now)
	venc := truncateDay(e.FechaVencimiento)
	return int(venc.Sub(hoy).Hours() / 24)
}

// Vencido es verdadero a partir del día siguiente al vencimiento.
func (e *Extintor) Vencido(now time.Time) bool {
	return e.DiasParaVencer(now) < 0
}

// Estado resume el vencimiento para mostrar: "vencido", "por_vencer" (dentro de dias) o "vigente".
func (e *Extintor) Estado(now time.Time, dias int) string {
	switch d := e.DiasParaVencer(now); {
	case d < 0:
		return "vencido"
	case d <= dias:
		return "por_vencer"
	default:
		return "vigente"
	}
}

// Recargar registra una carga nueva y extiende el vencimiento un año desde now.
func (e *Extintor) Recargar(now time.Time) {
	now = now.UTC()
	e.UltimaCarga = &now
	e.FechaVencimiento = now.AddDate(VidaUtilCarga, 0, 0)
	e.UpdatedAt = now
}

func (e *Extintor) Update(codigo, fabricante string, tipo Tipo, capacidadKg float64, sucursalID *uuid.UUID) {
	e.Codigo = strings.ToUpper(strings.TrimSpace(codigo))
	e.Fabricante = strings.TrimSpace(fabricante)
	e.Tipo = tipo
	e.CapacidadKg = capacidadKg
	e.SucursalID = sucursalID
	e.UpdatedAt = time.Now().UTC()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
