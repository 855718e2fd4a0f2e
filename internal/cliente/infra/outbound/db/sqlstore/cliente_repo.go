// Package sqlstore persiste clientes y sucursales en SQLite o PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	clienteDomain "github.com/davicafu/matafuegos/internal/cliente/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const clientesDDL = `
CREATE TABLE IF NOT EXISTS clientes (
    id UUID PRIMARY KEY,
    nombre TEXT NOT NULL,
    cuit TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    telefono TEXT NOT NULL DEFAULT '',
    activo BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL
)`

const sucursalesDDL = `
CREATE TABLE IF NOT EXISTS sucursales (
    id UUID PRIMARY KEY,
    cliente_id UUID NOT NULL REFERENCES clientes(id) ON DELETE CASCADE,
    nombre TEXT NOT NULL,
    direccion TEXT NOT NULL DEFAULT '',
    localidad TEXT NOT NULL DEFAULT '',
    activo BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL
)`

// InitSchema crea las tablas del contexto y la outbox.
func InitSchema(ctx context.Context, db *sql.DB, dialect persistence.Dialect) error {
	return persistence.Migrate(ctx, db, dialect, clientesDDL, sucursalesDDL, sharedSQL.OutboxDDL)
}

var clienteColumns = persistence.Columns{
	"id":         "id",
	"nombre":     "nombre",
	"cuit":       "cuit",
	"email":      "email",
	"telefono":   "telefono",
	"activo":     "activo",
	"created_at": "created_at",
}

// Las sucursales se leen con JOIN para poder filtrar y ordenar por el cliente.
var sucursalColumns = persistence.Columns{
	"id":             "s.id",
	"cliente_id":     "s.cliente_id",
	"nombre":         "s.nombre",
	"direccion":      "s.direccion",
	"localidad":      "s.localidad",
	"activo":         "s.activo",
	"created_at":     "s.created_at",
	"cliente.nombre": "c.nombre",
	"cliente.cuit":   "c.cuit",
}

// Repo implementa ClienteRepository y SucursalRepository.
type Repo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewRepo(db *sql.DB, dialect persistence.Dialect) *Repo {
	return &Repo{db: db, qb: dialect.Builder()}
}

var (
	_ clienteDomain.ClienteRepository  = (*Repo)(nil)
	_ clienteDomain.SucursalRepository = (*Repo)(nil)
)

// withTx ejecuta fn y el insert de outbox en la misma transacción.
func (r *Repo) withTx(ctx context.Context, evt sharedDomain.OutboxEvent, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	if err := fn(tx); err != nil {
		return err
	}
	if err := sharedSQL.InsertOutboxTx(ctx, tx, r.qb, evt); err != nil {
		return err
	}
	return tx.Commit()
}

// ------------------ Clientes ------------------

func (r *Repo) Create(ctx context.Context, c *clienteDomain.Cliente, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		_, err := r.qb.Insert("clientes").
			Columns("id", "nombre", "cuit", "email", "telefono", "activo", "created_at").
			Values(c.ID.String(), c.Nombre, c.CUIT, c.Email, c.Telefono, c.Activo, c.CreatedAt.UTC()).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert cliente: %w", err)
		}
		return nil
	})
}

func (r *Repo) Update(ctx context.Context, c *clienteDomain.Cliente, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Update("clientes").
			Set("nombre", c.Nombre).
			Set("cuit", c.CUIT).
			Set("email", c.Email).
			Set("telefono", c.Telefono).
			Set("activo", c.Activo).
			Where(squirrel.Eq{"id": c.ID.String()}).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, clienteDomain.ErrClienteNotFound)
	})
}

func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		if _, err := r.qb.Delete("sucursales").Where(squirrel.Eq{"cliente_id": id.String()}).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		res, err := r.qb.Delete("clientes").Where(squirrel.Eq{"id": id.String()}).RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, clienteDomain.ErrClienteNotFound)
	})
}

func (r *Repo) selectClientes() squirrel.SelectBuilder {
	return r.qb.Select("id", "nombre", "cuit", "email", "telefono", "activo", "created_at").From("clientes")
}

func scanCliente(row squirrel.RowScanner) (*clienteDomain.Cliente, error) {
	var c clienteDomain.Cliente
	if err := row.Scan(&c.ID, &c.Nombre, &c.CUIT, &c.Email, &c.Telefono, &c.Activo, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*clienteDomain.Cliente, error) {
	c, err := scanCliente(r.selectClientes().Where(squirrel.Eq{"id": id.String()}).RunWith(r.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clienteDomain.ErrClienteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return c, nil
}

func (r *Repo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*clienteDomain.Cliente, error) {
	b, err := persistence.Where(r.selectClientes(), criteria, clienteColumns)
	if err != nil {
		return nil, err
	}
	if b, err = persistence.OrderBy(b, sort, clienteColumns, "nombre"); err != nil {
		return nil, err
	}
	if b, err = persistence.Paginate(b, pagination, clienteColumns); err != nil {
		return nil, err
	}

	rows, err := b.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientes []*clienteDomain.Cliente
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, err
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

// ------------------ Sucursales ------------------

func (r *Repo) CreateSucursal(ctx context.Context, s *clienteDomain.Sucursal, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		var exists int
		err := r.qb.Select("1").From("clientes").Where(squirrel.Eq{"id": s.ClienteID.String()}).
			RunWith(tx).QueryRowContext(ctx).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return clienteDomain.ErrClienteNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		_, err = r.qb.Insert("sucursales").
			Columns("id", "cliente_id", "nombre", "direccion", "localidad", "activo", "created_at").
			Values(s.ID.String(), s.ClienteID.String(), s.Nombre, s.Direccion, s.Localidad, s.Activo, s.CreatedAt.UTC()).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert sucursal: %w", err)
		}
		return nil
	})
}

func (r *Repo) selectSucursales() squirrel.SelectBuilder {
	return r.qb.Select(
		"s.id", "s.cliente_id", "s.nombre", "s.direccion", "s.localidad", "s.activo", "s.created_at",
		"c.id", "c.nombre", "c.cuit", "c.email", "c.telefono", "c.activo", "c.created_at",
	).From("sucursales s").Join("clientes c ON c.id = s.cliente_id")
}

func scanSucursal(row squirrel.RowScanner) (*clienteDomain.Sucursal, error) {
	var s clienteDomain.Sucursal
	var c clienteDomain.Cliente
	err := row.Scan(
		&s.ID, &s.ClienteID, &s.Nombre, &s.Direccion, &s.Localidad, &s.Activo, &s.CreatedAt,
		&c.ID, &c.Nombre, &c.CUIT, &c.Email, &c.Telefono, &c.Activo, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Cliente = &c
	return &s, nil
}

func (r *Repo) GetSucursal(ctx context.Context, id uuid.UUID) (*clienteDomain.Sucursal, error) {
	s, err := scanSucursal(r.selectSucursales().Where(squirrel.Eq{"s.id": id.String()}).RunWith(r.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clienteDomain.ErrSucursalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return s, nil
}

func (r *Repo) ListSucursales(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*clienteDomain.Sucursal, error) {
	b, err := persistence.Where(r.selectSucursales(), criteria, sucursalColumns)
	if err != nil {
		return nil, err
	}
	if b, err = persistence.OrderBy(b, sort, sucursalColumns, "s.nombre"); err != nil {
		return nil, err
	}
	if b, err = persistence.Paginate(b, pagination, sucursalColumns); err != nil {
		return nil, err
	}

	rows, err := b.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sucursales []*clienteDomain.Sucursal
	for rows.Next() {
		s, err := scanSucursal(rows)
		if err != nil {
			return nil, err
		}
		sucursales = append(sucursales, s)
	}
	return sucursales, rows.Err()
}
