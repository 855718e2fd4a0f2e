package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

var (
	ErrTareaNotFound       = errors.New("tarea not found")
	ErrTareaAlreadyExists  = errors.New("tarea already exists")
	ErrInvalidTarea        = errors.New("invalid tarea")
	ErrTareaCannotComplete = errors.New("tarea cannot change state")
)

// --- Repositorio de Tareas ---
type TareaRepository interface {
	// Debe devolver ErrTareaAlreadyExists si el id ya existe.
	Create(ctx context.Context, t *Tarea, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, t *Tarea, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tarea, error)
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Tarea, error)
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
}

// Responsables resuelve los usuarios asignados de un lote de tareas.
type Responsables interface {
	Responsables(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Responsable, error)
}

// DTO para transportar los resultados de la consulta de tendencia.
type DailyTrend struct {
	Day            time.Time `json:"day"`
	CreatedCount   int       `json:"created"`
	CompletedCount int       `json:"completed"`
	FailedCount    int       `json:"failed"`
}

// LogEntry es una fila del historial analítico de tareas.
type LogEntry struct {
	EventType string
	EventTime time.Time
	Tarea     Tarea
}

type TareaAnalyticsRepository interface {
	LogBatch(ctx context.Context, entries []LogEntry) error
	GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error)
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]DailyTrend, error)
}

func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("tarea:id:%s", id.String())
}
