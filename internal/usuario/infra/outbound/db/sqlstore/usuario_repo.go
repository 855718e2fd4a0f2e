// Package sqlstore persiste usuarios en SQLite o PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const usuariosDDL = `
CREATE TABLE IF NOT EXISTS usuarios (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    nombre TEXT NOT NULL,
    rol TEXT NOT NULL,
    activo BOOLEAN NOT NULL DEFAULT TRUE,
    birth_date TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`

func InitSchema(ctx context.Context, db *sql.DB, dialect persistence.Dialect) error {
	return persistence.Migrate(ctx, db, dialect, usuariosDDL, sharedSQL.OutboxDDL)
}

var usuarioColumns = persistence.Columns{
	"id":         "id",
	"email":      "email",
	"nombre":     "nombre",
	"rol":        "rol",
	"activo":     "activo",
	"birth_date": "birth_date",
	"created_at": "created_at",
}

type UsuarioRepo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewUsuarioRepo(db *sql.DB, dialect persistence.Dialect) *UsuarioRepo {
	return &UsuarioRepo{db: db, qb: dialect.Builder()}
}

var _ usuarioDomain.UsuarioRepository = (*UsuarioRepo)(nil)

func (r *UsuarioRepo) withTx(ctx context.Context, evt sharedDomain.OutboxEvent, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := sharedSQL.InsertOutboxTx(ctx, tx, r.qb, evt); err != nil {
		return err
	}
	return tx.Commit()
}

// Create inserta usuario y evento en transacción.
func (r *UsuarioRepo) Create(ctx context.Context, u *usuarioDomain.Usuario, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		var n int
		err := r.qb.Select("COUNT(*)").From("usuarios").
			Where(squirrel.Or{squirrel.Eq{"id": u.ID.String()}, squirrel.Eq{"email": u.Email}}).
			RunWith(tx).QueryRowContext(ctx).Scan(&n)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n > 0 {
			return usuarioDomain.ErrUsuarioAlreadyExists
		}

		_, err = r.qb.Insert("usuarios").
			Columns("id", "email", "nombre", "rol", "activo", "birth_date", "created_at").
			Values(u.ID.String(), u.Email, u.Nombre, string(u.Rol), u.Activo, u.BirthDate.UTC(), u.CreatedAt.UTC()).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert usuario: %w", err)
		}
		return nil
	})
}

func (r *UsuarioRepo) Update(ctx context.Context, u *usuarioDomain.Usuario, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Update("usuarios").
			Set("email", u.Email).
			Set("nombre", u.Nombre).
			Set("rol", string(u.Rol)).
			Set("activo", u.Activo).
			Set("birth_date", u.BirthDate.UTC()).
			Where(squirrel.Eq{"id": u.ID.String()}).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, usuarioDomain.ErrUsuarioNotFound)
	})
}

func (r *UsuarioRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Delete("usuarios").Where(squirrel.Eq{"id": id.String()}).RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, usuarioDomain.ErrUsuarioNotFound)
	})
}

func (r *UsuarioRepo) selectUsuarios() squirrel.SelectBuilder {
	return r.qb.Select("id", "email", "nombre", "rol", "activo", "birth_date", "created_at").From("usuarios")
}

func scanUsuario(row squirrel.RowScanner) (*usuarioDomain.Usuario, error) {
	var (
		u   usuarioDomain.Usuario
		rol string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Nombre, &rol, &u.Activo, &u.BirthDate, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Rol = usuarioDomain.Rol(rol)
	return &u, nil
}

func (r *UsuarioRepo) GetByID(ctx context.Context, id uuid.UUID) (*usuarioDomain.Usuario, error) {
	u, err := scanUsuario(r.selectUsuarios().Where(squirrel.Eq{"id": id.String()}).RunWith(r.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usuarioDomain.ErrUsuarioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return u, nil
}

// List aplica criterios, orden y paginación. Sin orden explícito, por nombre.
func (r *UsuarioRepo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*usuarioDomain.Usuario, error) {
	b, err := persistence.Where(r.selectUsuarios(), criteria, usuarioColumns)
	if err != nil {
		return nil, err
	}
	if b, err = persistence.OrderBy(b, sort, usuarioColumns, "nombre"); err != nil {
		return nil, err
	}
	if b, err = persistence.Paginate(b, pagination, usuarioColumns); err != nil {
		return nil, err
	}

	rows, err := b.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []*usuarioDomain.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}
