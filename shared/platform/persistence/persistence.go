// Package persistence reúne lo común a los repositorios SQL: apertura de la conexión,
// dialecto de placeholders y traducción de criterios neutrales a squirrel.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
	_ "modernc.org/sqlite"             // Driver de SQLite
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrUnknownField  = errors.New("unknown field")
)

// Dialect es el nombre del driver de database/sql.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "pgx"
)

func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(driver)); d {
	case SQLite, Postgres:
		return d, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Builder devuelve el StatementBuilder con el formato de placeholders del dialecto.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	if d == Postgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

var sqliteTypes = strings.NewReplacer("TIMESTAMPTZ", "TIMESTAMP", "JSONB", "TEXT", "UUID", "TEXT")

// Schema adapta un DDL escrito para PostgreSQL al dialecto.
func (d Dialect) Schema(ddl string) string {
	if d == SQLite {
		return sqliteTypes.Replace(ddl)
	}
	return ddl
}

// Open abre y verifica la conexión.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// Una sola conexión: ":memory:" es una base por conexión y SQLite serializa escrituras.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// Migrate ejecuta los DDL en orden, adaptados al dialecto.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, ddl ...string) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, dialect.Schema(stmt)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ---------------- Criterios ----------------

// Columns es la lista blanca de campos filtrables/ordenables: campo público -> columna SQL.
type Columns map[string]string

// Column acepta tanto el nombre público como el de la columna.
func (c Columns) Column(field string) (string, bool) {
	if col, ok := c[field]; ok {
		return col, true
	}
	for _, col := range c {
		if col == field {
			return col, true
		}
	}
	return "", false
}

// ToSqlizer traduce criterios a una condición WHERE. Devuelve nil si no restringen nada.
// Los CompositeCriteria conservan su operador (AND/OR) y se anidan.
func ToSqlizer(crit sharedDomain.Criteria, cols Columns) (squirrel.Sqlizer, error) {
	if sharedDomain.IsEmpty(crit) {
		return nil, nil
	}

	if comp, ok := crit.(sharedDomain.CompositeCriteria); ok {
		parts := make([]squirrel.Sqlizer, 0, len(comp.Criterias))
		for _, sub := range comp.Criterias {
			s, err := ToSqlizer(sub, cols)
			if err != nil {
				return nil, err
			}
			if s != nil {
				parts = append(parts, s)
			}
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		if comp.Operator == sharedDomain.OpOr {
			return squirrel.Or(parts), nil
		}
		return squirrel.And(parts), nil
	}

	conds := crit.ToConditions()
	and := make(squirrel.And, 0, len(conds))
	for _, c := range conds {
		s, err := criterionSqlizer(c, cols)
		if err != nil {
			return nil, err
		}
		and = append(and, s)
	}
	if len(and) == 1 {
		return and[0], nil
	}
	return and, nil
}

func criterionSqlizer(c sharedDomain.Criterion, cols Columns) (squirrel.Sqlizer, error) {
	col, ok := cols.Column(c.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
	}

	switch c.Op {
	case sharedDomain.OpEq, sharedDomain.OpIn:
		return squirrel.Eq{col: c.Value}, nil
	case sharedDomain.OpNeq:
		return squirrel.NotEq{col: c.Value}, nil
	case sharedDomain.OpGt:
		return squirrel.Gt{col: c.Value}, nil
	case sharedDomain.OpGte:
		return squirrel.GtOrEq{col: c.Value}, nil
	case sharedDomain.OpLt:
		return squirrel.Lt{col: c.Value}, nil
	case sharedDomain.OpLte:
		return squirrel.LtOrEq{col: c.Value}, nil
	case sharedDomain.OpLike:
		return squirrel.Like{col: c.Value}, nil
	case sharedDomain.OpILike:
		// LOWER funciona igual en SQLite y PostgreSQL; ILIKE solo existe en el segundo.
		return squirrel.Expr("LOWER("+col+") LIKE LOWER(?)", c.Value), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", c.Op)
}

// Where aplica los criterios a un SELECT.
func Where(b squirrel.SelectBuilder, crit sharedDomain.Criteria, cols Columns) (squirrel.SelectBuilder, error) {
	s, err := ToSqlizer(crit, cols)
	if err != nil || s == nil {
		return b, err
	}
	return b.Where(s), nil
}

// OrderBy valida el campo contra la lista blanca; sin campo usa fallback.
func OrderBy(b squirrel.SelectBuilder, sort sharedQuery.Sort, cols Columns, fallback string) (squirrel.SelectBuilder, error) {
	col := fallback
	if sort.Field != "" {
		c, ok := cols.Column(sort.Field)
		if !ok {
			return b, fmt.Errorf("%w: %s", ErrUnknownField, sort.Field)
		}
		col = c
	}
	if col == "" {
		return b, nil
	}
	return b.OrderBy(col + sharedQuery.Direction(sort.Desc)), nil
}

// Paginate aplica paginación por offset o por cursor.
func Paginate(b squirrel.SelectBuilder, p sharedQuery.Pagination, cols Columns) (squirrel.SelectBuilder, error) {
	switch pg := p.(type) {
	case sharedQuery.OffsetPagination:
		if pg.Limit > 0 {
			b = b.Limit(uint64(pg.Limit))
		}
		if pg.Offset > 0 {
			b = b.Offset(uint64(pg.Offset))
		}
	case sharedQuery.CursorPagination:
		col, ok := cols.Column(pg.SortField)
		if !ok {
			return b, fmt.Errorf("%w: %s", ErrUnknownField, pg.SortField)
		}
		if pg.Cursor != "" {
			if pg.SortDesc {
				b = b.Where(squirrel.Lt{col: pg.Cursor})
			} else {
				b = b.Where(squirrel.Gt{col: pg.Cursor})
			}
		}
		b = b.OrderBy(col + sharedQuery.Direction(pg.SortDesc))
		if pg.Limit > 0 {
			b = b.Limit(uint64(pg.Limit))
		}
	}
	return b, nil
}

// NotFoundIfNone convierte un RowsAffected 0 en err.
func NotFoundIfNone(res sql.Result, err error) error {
	n, rerr := res.RowsAffected()
	if rerr != nil {
		return fmt.Errorf("failed to get RowsAffected: %w", rerr)
	}
	if n == 0 {
		return err
	}
	return nil
}
