// Package sqlstore persiste tareas en SQLite o PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const tareasDDL = `
CREATE TABLE IF NOT EXISTS tareas (
    id UUID PRIMARY KEY,
    titulo TEXT NOT NULL,
    descripcion TEXT NOT NULL DEFAULT '',
    tipo TEXT NOT NULL,
    asignado_id UUID NOT NULL,
    estado TEXT NOT NULL,
    sucursal_id UUID,
    fecha_programada TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

const tareasAsignadoIdx = `CREATE INDEX IF NOT EXISTS idx_tareas_asignado ON tareas (asignado_id, estado)`

func InitSchema(ctx context.Context, db *sql.DB, dialect persistence.Dialect) error {
	return persistence.Migrate(ctx, db, dialect, tareasDDL, tareasAsignadoIdx, sharedSQL.OutboxDDL)
}

var tareaColumns = persistence.Columns{
	"id":               "id",
	"titulo":           "titulo",
	"descripcion":      "descripcion",
	"tipo":             "tipo",
	"asignado_id":      "asignado_id",
	"estado":           "estado",
	"sucursal_id":      "sucursal_id",
	"fecha_programada": "fecha_programada",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
}

// TareaRepo implementa TareaRepository sobre database/sql.
type TareaRepo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewTareaRepo(db *sql.DB, dialect persistence.Dialect) *TareaRepo {
	return &TareaRepo{db: db, qb: dialect.Builder()}
}

var _ tareaDomain.TareaRepository = (*TareaRepo)(nil)

// ------------------ CRUD + Outbox ------------------

func (r *TareaRepo) withTx(ctx context.Context, evt sharedDomain.OutboxEvent, fn func(tx *sql.Tx) error) error {
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

// Create inserta una tarea y un evento en una transacción.
func (r *TareaRepo) Create(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		var n int
		err := r.qb.Select("COUNT(*)").From("tareas").Where(squirrel.Eq{"id": t.ID.String()}).
			RunWith(tx).QueryRowContext(ctx).Scan(&n)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n > 0 {
			return tareaDomain.ErrTareaAlreadyExists
		}

		_, err = r.qb.Insert("tareas").
			Columns("id", "titulo", "descripcion", "tipo", "asignado_id", "estado", "sucursal_id", "fecha_programada", "created_at", "updated_at").
			Values(t.ID.String(), t.Titulo, t.Descripcion, string(t.Tipo), t.AsignadoID.String(), string(t.Estado),
				nullableID(t.SucursalID), nullableTime(t.FechaProgramada), t.CreatedAt.UTC(), t.UpdatedAt.UTC()).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert tarea: %w", err)
		}
		return nil
	})
}

func (r *TareaRepo) Update(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Update("tareas").
			Set("titulo", t.Titulo).
			Set("descripcion", t.Descripcion).
			Set("tipo", string(t.Tipo)).
			Set("asignado_id", t.AsignadoID.String()).
			Set("estado", string(t.Estado)).
			Set("sucursal_id", nullableID(t.SucursalID)).
			Set("fecha_programada", nullableTime(t.FechaProgramada)).
			Set("updated_at", t.UpdatedAt.UTC()).
			Where(squirrel.Eq{"id": t.ID.String()}).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, tareaDomain.ErrTareaNotFound)
	})
}

func (r *TareaRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.withTx(ctx, evt, func(tx *sql.Tx) error {
		res, err := r.qb.Delete("tareas").Where(squirrel.Eq{"id": id.String()}).RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return persistence.NotFoundIfNone(res, tareaDomain.ErrTareaNotFound)
	})
}

// ------------------ Lectura ------------------

func (r *TareaRepo) selectTareas() squirrel.SelectBuilder {
	return r.qb.Select("id", "titulo", "descripcion", "tipo", "asignado_id", "estado", "sucursal_id", "fecha_programada", "created_at", "updated_at").
		From("tareas")
}

func scanTarea(row squirrel.RowScanner) (*tareaDomain.Tarea, error) {
	var (
		t          tareaDomain.Tarea
		tipo       string
		estado     string
		sucursal   sql.NullString
		programada sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Titulo, &t.Descripcion, &tipo, &t.AsignadoID, &estado, &sucursal, &programada, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Tipo = tareaDomain.Tipo(tipo)
	t.Estado = tareaDomain.Estado(estado)
	if sucursal.Valid {
		id, err := uuid.Parse(sucursal.String)
		if err != nil {
			return nil, fmt.Errorf("invalid sucursal_id: %w", err)
		}
		t.SucursalID = &id
	}
	if programada.Valid {
		p := programada.Time.UTC()
		t.FechaProgramada = &p
	}
	return &t, nil
}

func (r *TareaRepo) GetByID(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error) {
	t, err := scanTarea(r.selectTareas().Where(squirrel.Eq{"id": id.String()}).RunWith(r.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tareaDomain.ErrTareaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return t, nil
}

// ListByCriteria aplica criterios, orden y paginación. Sin orden explícito, por fecha de creación.
func (r *TareaRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*tareaDomain.Tarea, error) {
	b, err := persistence.Where(r.selectTareas(), criteria, tareaColumns)
	if err != nil {
		return nil, err
	}
	if _, cursor := pagination.(sharedQuery.CursorPagination); !cursor {
		if b, err = persistence.OrderBy(b, sort, tareaColumns, "created_at"); err != nil {
			return nil, err
		}
	}
	if b, err = persistence.Paginate(b, pagination, tareaColumns); err != nil {
		return nil, err
	}

	rows, err := b.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tareas []*tareaDomain.Tarea
	for rows.Next() {
		t, err := scanTarea(rows)
		if err != nil {
			return nil, err
		}
		tareas = append(tareas, t)
	}
	return tareas, rows.Err()
}

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
