package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Rol string

const (
	RolAdmin      Rol = "admin"
	RolSupervisor Rol = "supervisor"
	RolTecnico    Rol = "tecnico"
	RolCliente    Rol = "cliente"
)

var Roles = []Rol{RolAdmin, RolSupervisor, RolTecnico, RolCliente}

func ParseRol(s string) (Rol, error) {
	r := Rol(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: rol %q", ErrInvalidUsuario, s)
}

type Permiso string

const (
	VerClientes      Permiso = "clientes:ver"
	EditarClientes   Permiso = "clientes:editar"
	VerExtintores    Permiso = "extintores:ver"
	EditarExtintores Permiso = "extintores:editar"
	RecargarExtintor Permiso = "extintores:recargar"
	VerTareas        Permiso = "tareas:ver"
	AsignarTareas    Permiso = "tareas:asignar"
	CompletarTareas  Permiso = "tareas:completar"
	VerReportes      Permiso = "reportes:ver"
	AdministrarUsers Permiso = "usuarios:admin"
)

// permisos por rol; el admin tiene todos.
var permisos = map[Rol][]Permiso{
	RolSupervisor: {VerClientes, EditarClientes, VerExtintores, EditarExtintores, VerTareas, AsignarTareas, VerReportes},
	RolTecnico:    {VerClientes, VerExtintores, RecargarExtintor, VerTareas, CompletarTareas},
	RolCliente:    {VerExtintores, VerReportes},
}

// Permisos devuelve los permisos del rol.
func (r Rol) Permisos() []Permiso {
	if r == RolAdmin {
		return []Permiso{VerClientes, EditarClientes, VerExtintores, EditarExtintores, RecargarExtintor,
			VerTareas, AsignarTareas, CompletarTareas, VerReportes, AdministrarUsers}
	}
	return permisos[r]
}

// Usuario es una persona que opera el sistema.
type Usuario struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Rol       Rol       `json:"rol"`
	Activo    bool      `json:"activo"`
	BirthDate time.Time `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUsuario(email, nombre string, rol Rol, birthDate time.Time) (*Usuario, error) {
	u := &Usuario{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Nombre:    strings.TrimSpace(nombre),
		Rol:       rol,
		Activo:    true,
		BirthDate: birthDate.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Usuario) Validate() error {
	if u.Nombre == "" {
		return fmt.Errorf("%w: nombre is required", ErrInvalidUsuario)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidUsuario, u.Email)
	}
	if _, err := ParseRol(string(u.Rol)); err != nil {
		return err
	}
	return nil
}

// Can indica si el usuario activo tiene el permiso.
func (u *Usuario) Can(p Permiso) bool {
	if !u.Activo {
		return false
	}
	for _, have := range u.Rol.Permisos() {
		if have == p {
			return true
		}
	}
	return false
}

func (u *Usuario) PartitionKey() string {
	return u.ID.String()
}

// Age calcula la edad del usuario a partir de su fecha de nacimiento.
func (u *Usuario) Age() int {
	return u.AgeAt(time.Now())
}

func (u *Usuario) AgeAt(now time.Time) int {
	years := now.Year() - u.BirthDate.Year()
	if now.Month() < u.BirthDate.Month() || (now.Month() == u.BirthDate.Month() && now.Day() < u.BirthDate.Day()) {
		years--
	}
	return years
}
