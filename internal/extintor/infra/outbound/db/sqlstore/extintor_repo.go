// Package sqlstore persiste extintores en SQLite o PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// sucursal_id referencia otro contexto: sin FK.
const extintoresDDL = `
CREATE TABLE IF NOT EXISTS extintores (
    id UUID PRIMARY KEY,
    codigo TEXT NOT NULL UNIQUE,
    tipo TEXT NOT NULL,
    capacidad_kg DOUBLE PRECISION NOT NULL,
    fabricante TEXT NOT NULL DEFAULT '',
    fecha_fabricacion TIMESTAMPTZ,
    fecha_vencimiento TIMESTAMPTZ NOT NULL,
    ultima_carga TIMESTAMPTZ,
    activo BOOLEAN NOT NULL DEFAULT TRUE,
    sucursal_id UUID,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

const extintoresVencimientoIdx = `CREATE INDEX IF NOT EXISTS idx_extintores_vencimiento ON extintores (fecha_vencimiento)`

func InitSchema(ctx context.Context, db *sql.DB, dialect persistence.Dialect) error {
	return persistence.Migrate(ctx, db, dialect, extintoresDDL, extintoresVencimientoIdx, sharedSQL.OutboxDDL)
}

var extintorColumns = persistence.Columns{
	"id":                "id",
	"codigo":            "codigo",
	"tipo":              "tipo",
	"capacidad_kg":      "capacidad_kg",
	"fabricante":        "fabricante",
	"fecha_fabricacion": "fecha_fabricacion",
	"fecha_vencimiento": "fecha_vencimiento",
	"ultima_carga":      "ultima_carga",
	"activo":            "activo",
	"sucursal_id":       "sucursal_id",
	"created_at":        "created_at",
	"updated_at":        "updated_at",
}

type ExtintorRepo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewExtintorRepo(db *sql.DB, dialect persistence.Dialect) *ExtintorRepo {
	return &ExtintorRepo{db: db, qb: dialect.Builder()}
}

var _ extintorDomain.ExtintorRepository = (*ExtintorRepo)(nil)

func (r *ExtintorRepo) withTx(ctx context.Context, evt sharedDomain.OutboxEvent, fn func(tx *sql.Tx) error) error {
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

// ------------------ CRUD + Outbox ------------------

func (r *ExtintorRepo) Create(ctx context.Context, e *extintorDomain.Extintor, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		_, err := r.qb.Insert("extintores").
			Columns("id", "codigo", "tipo", "capacidad_kg", "fabricante", "fecha_fabricacion", "fecha_vencimiento",
				"ultima_carga", "activo", "sucursal_id", "created_at", "updated_at").
			Values(e.ID.String(), e.Codigo, string(e.Tipo), e.CapacidadKg, e.Fabricante, nullTime(&e.FechaFabricacion), e.FechaVencimiento.UTC(),
				nullTime(e.UltimaCarga), e.Activo, nullUUID(e.SucursalID), e.CreatedAt.UTC(), e.UpdatedAt.UTC()).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert extintor: %w", err)
		}
		return nil
	})
}

func (r *ExtintorRepo) Update(ctx context.Context, e *extintorDomain.Extintor, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Update("extintores").
			SetMap(map[string]interface{}{
				"codigo":            e.Codigo,
				"tipo":              string(e.Tipo),
				"capacidad_kg":      e.CapacidadKg,
				"fabricante":        e.Fabricante,
				"fecha_fabricacion": nullTime(&e.FechaFabricacion),
				"fecha_vencimiento": e.FechaVencimiento.UTC(),
				"ultima_carga":      nullTime(e.UltimaCarga),
				"activo":            e.Activo,
				"sucursal_id":       nullUUID(e.SucursalID),
				"updated_at":        e.UpdatedAt.UTC(),
			}).
			Where(squirrel.Eq{"id": e.ID.String()}).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, extintorDomain.ErrExtintorNotFound)
	})
}

func (r *ExtintorRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Delete("extintores").Where(squirrel.Eq{"id": id.String()}).RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, extintorDomain.ErrExtintorNotFound)
	})
}

// ------------------ Lectura ------------------

func (r *ExtintorRepo) selectExtintores() squirrel.SelectBuilder {
	return r.qb.Select("id", "codigo", "tipo", "capacidad_kg", "fabricante", "fecha_fabricacion", "fecha_vencimiento",
		"ultima_carga", "activo", "sucursal_id", "created_at", "updated_at").From("extintores")
}

func scanExtintor(row squirrel.RowScanner) (*extintorDomain.Extintor, error) {
	var (
		e           extintorDomain.Extintor
		tipo        string
		fabricacion sql.NullTime
		ultimaCarga sql.NullTime
		sucursalID  sql.NullString
	)
	err := row.Scan(&e.ID, &e.Codigo, &tipo, &e.CapacidadKg, &e.Fabricante, &fabricacion, &e.FechaVencimiento,
		&ultimaCarga, &e.Activo, &sucursalID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Tipo = extintorDomain.Tipo(tipo)
	if fabricacion.Valid {
		e.FechaFabricacion = fabricacion.Time
	}
	if ultimaCarga.Valid {
		t := ultimaCarga.Time
		e.UltimaCarga = &t
	}
	if sucursalID.Valid {
		id, err := uuid.Parse(sucursalID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid sucursal_id %q: %w", sucursalID.String, err)
		}
		e.SucursalID = &id
	}
	return &e, nil
}

func (r *ExtintorRepo) GetByID(ctx context.Context, id uuid.UUID) (*extintorDomain.Extintor, error) {
	e, err := scanExtintor(r.selectExtintores().Where(squirrel.Eq{"id": id.String()}).RunWith(r.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, extintorDomain.ErrExtintorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return e, nil
}

func (r *ExtintorRepo) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*extintorDomain.Extintor, error) {
	b, err := persistence.Where(r.selectExtintores(), criteria, extintorColumns)
	if err != nil {
		return nil, err
	}
	if b, err = persistence.OrderBy(b, sort, extintorColumns, "codigo"); err != nil {
		return nil, err
	}
	if b, err = persistence.Paginate(b, pagination, extintorColumns); err != nil {
		return nil, err
	}

	rows, err := b.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extintores []*extintorDomain.Extintor
	for rows.Next() {
		e, err := scanExtintor(rows)
		if err != nil {
			return nil, err
		}
		extintores = append(extintores, e)
	}
	return extintores, rows.Err()
}

func nullTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
