// Package clickhouse guarda el historial de eventos de tareas para reportes.
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// TareaAnalyticsRepo implementa TareaAnalyticsRepository para ClickHouse.
type TareaAnalyticsRepo struct {
	db *sql.DB
}

// Open conecta con ClickHouse por la interfaz database/sql.
func Open(ctx context.Context, addr, dbName string) (*sql.DB, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
	})

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return conn, nil
}

func NewTareaAnalyticsRepo(db *sql.DB) *TareaAnalyticsRepo {
	return &TareaAnalyticsRepo{db: db}
}

// InitSchema crea la tabla si no existe. Particionada por mes y ordenada por los campos de consulta.
func (r *TareaAnalyticsRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tareas_log (
			id               UUID,
			event_type       LowCardinality(String),
			titulo           String,
			tipo             LowCardinality(String),
			asignado_id      UUID,
			estado           LowCardinality(String),
			created_at       DateTime64(3),
			updated_at       DateTime64(3),
			event_time       DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (asignado_id, estado, event_time)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// logArgs arma los valores de una fila en el orden del INSERT.
func logArgs(e tareaDomain.LogEntry) []any {
	t := e.Tarea
	return []any{
		t.ID, e.EventType, t.Titulo, string(t.Tipo), t.AsignadoID, string(t.Estado),
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(), e.EventTime.UTC(),
	}
}

// LogBatch inserta un lote de entradas. ClickHouse funciona mejor con inserciones en lotes.
func (r *TareaAnalyticsRepo) LogBatch(ctx context.Context, entries []tareaDomain.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO tareas_log (id, event_type, titulo, tipo, asignado_id, estado, created_at, updated_at, event_time)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, logArgs(e)...); err != nil {
			// Un registro fallido descarta el lote completo.
			return fmt.Errorf("failed to exec statement for tarea %s: %w", e.Tarea.ID, err)
		}
	}
	return tx.Commit()
}

func (r *TareaAnalyticsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]tareaDomain.DailyTrend, error) {
	query := fmt.Sprintf(`
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(event_type = '%s') AS created,
			countIf(event_type = '%s' AND estado = '%s') AS completed,
			countIf(event_type = '%s' AND estado = '%s') AS failed
		FROM tareas_log
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`, tareaDomain.TareaCreated,
		tareaDomain.TareaUpdated, tareaDomain.EstadoCompletada,
		tareaDomain.TareaUpdated, tareaDomain.EstadoFallida)

	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []tareaDomain.DailyTrend
	for rows.Next() {
		var (
			trend                      tareaDomain.DailyTrend
			created, completed, failed uint64
		)
		if err := rows.Scan(&trend.Day, &created, &completed, &failed); err != nil {
			return nil, err
		}
		trend.CreatedCount, trend.CompletedCount, trend.FailedCount = int(created), int(completed), int(failed)
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// GetAverageCompletionTime promedia, para las tareas completadas en el rango, el tiempo
// entre su primer evento de alta y su último evento completado.
func (r *TareaAnalyticsRepo) GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error) {
	query := fmt.Sprintf(`
		SELECT avg(dateDiff('second', creation_time, completion_time)) AS avg_completion_seconds
		FROM (
			SELECT
				id,
				minIf(event_time, event_type = '%s') AS creation_time,
				maxIf(event_time, estado = '%s') AS completion_time
			FROM tareas_log
			WHERE id IN (
				SELECT DISTINCT id FROM tareas_log WHERE estado = '%s' AND event_time BETWEEN ? AND ?
			)
			GROUP BY id
		)
		WHERE toUnixTimestamp(creation_time) > 0 AND toUnixTimestamp(completion_time) > 0
	`, tareaDomain.TareaCreated, tareaDomain.EstadoCompletada, tareaDomain.EstadoCompletada)

	var avgSeconds sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, start.UTC(), end.UTC()).Scan(&avgSeconds); err != nil {
		return 0, err
	}
	return secondsToDuration(avgSeconds), nil
}

func secondsToDuration(s sql.NullFloat64) time.Duration {
	if !s.Valid || s.Float64 < 0 {
		return 0
	}
	return time.Duration(s.Float64 * float64(time.Second)).Round(time.Second)
}

var _ tareaDomain.TareaAnalyticsRepository = (*TareaAnalyticsRepo)(nil)
