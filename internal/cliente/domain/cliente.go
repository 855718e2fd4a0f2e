package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Cliente es la empresa u organismo al que se le prestan los servicios.
type Cliente struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	CUIT      string    `json:"cuit"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// Sucursal es un domicilio del cliente donde hay equipos instalados.
type Sucursal struct {
	ID        uuid.UUID `json:"id"`
	ClienteID uuid.UUID `json:"cliente_id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Localidad string    `json:"localidad"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`

	// Se hidrata al leer; nil si no se cargó.
	Cliente *Cliente `json:"cliente,omitempty"`
}

func NewCliente(nombre, cuit, email, telefono string) (*Cliente, error) {
	c := &Cliente{
		ID:        uuid.New(),
		Nombre:    strings.TrimSpace(nombre),
		CUIT:      NormalizeCUIT(cuit),
		Email:     strings.TrimSpace(email),
		Telefono:  strings.TrimSpace(telefono),
		Activo:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate exige nombre y, si hay CUIT, 11 dígitos.
func (c *Cliente) Validate() error {
	if c.Nombre == "" {
		return fmt.Errorf("%w: nombre is required", ErrInvalidCliente)
	}
	if c.CUIT != "" && len(c.CUIT) != 11 {
		return fmt.Errorf("%w: cuit must have 11 digits", ErrInvalidCliente)
	}
	for _, r := range c.CUIT {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: cuit must be numeric", ErrInvalidCliente)
		}
	}
	return nil
}

// NormalizeCUIT quita guiones y espacios ("30-71234567-9" -> "30712345679").
func NormalizeCUIT(cuit string) string {
	return strings.NewReplacer("-", "", " ", "", ".", "").Replace(strings.TrimSpace(cuit))
}

func NewSucursal(clienteID uuid.UUID, nombre, direccion, localidad string) (*Sucursal, error) {
	s := &Sucursal{
		ID:        uuid.New(),
		ClienteID: clienteID,
		Nombre:    strings.TrimSpace(nombre),
		Direccion: strings.TrimSpace(direccion),
		Localidad: strings.TrimSpace(localidad),
		Activo:    true,
		CreatedAt: time.Now().UTC(),
	}
	if s.Nombre == "" {
		return nil, fmt.Errorf("%w: nombre is required", ErrInvalidSucursal)
	}
	if s.ClienteID == uuid.Nil {
		return nil, fmt.Errorf("%w: cliente_id is required", ErrInvalidSucursal)
	}
	return s, nil
}
