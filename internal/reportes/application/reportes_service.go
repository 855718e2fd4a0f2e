package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"go.uber.org/zap"
)

var (
	ErrInvalidRange      = errors.New("invalid report range")
	ErrAnalyticsDisabled = errors.New("analytics store not configured")
)

const (
	MaxTendenciaDias    = 366
	MaxVencimientosDias = 365
)

// Vencimientos es la parte del servicio de extintores que usan los reportes.
type Vencimientos interface {
	VencimientosTable(ctx context.Context, dias int) (*table.Table[*extintorDomain.Extintor], error)
}

type ReportesService struct {
	analytics    tareaDomain.TareaAnalyticsRepository
	vencimientos Vencimientos
	log          *zap.Logger
	now          func() time.Time
}

// NewReportesService acepta analytics nil: los reportes de tareas responden ErrAnalyticsDisabled.
func NewReportesService(analytics tareaDomain.TareaAnalyticsRepository, vencimientos Vencimientos, log *zap.Logger) *ReportesService {
	return &ReportesService{analytics: analytics, vencimientos: vencimientos, log: log, now: time.Now}
}

func (s *ReportesService) WithClock(now func() time.Time) *ReportesService {
	s.now = now
	return s
}

// TendenciaTareas resume la actividad diaria de tareas entre dos fechas.
type TendenciaTareas struct {
	Desde       time.Time                `json:"desde"`
	Hasta       time.Time                `json:"hasta"`
	Dias        []tareaDomain.DailyTrend `json:"dias"`
	Creadas     int                      `json:"creadas"`
	Completadas int                      `json:"completadas"`
	Fallidas    int                      `json:"fallidas"`
	// Tiempo medio entre creación y completado, en segundos.
	PromedioCompletadoSeg float64 `json:"promedio_completado_seg"`
}

// DefaultRange devuelve los últimos 30 días completos, hoy incluido.
func (s *ReportesService) DefaultRange() (time.Time, time.Time) {
	y, m, d := s.now().UTC().Date()
	hasta := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return hasta.AddDate(0, 0, -30), hasta
}

// Tendencia consulta el rango semiabierto [desde, hasta).
func (s *ReportesService) Tendencia(ctx context.Context, desde, hasta time.Time) (*TendenciaTareas, error) {
	if s.analytics == nil {
		return nil, ErrAnalyticsDisabled
	}
	if !hasta.After(desde) {
		return nil, fmt.Errorf("%w: hasta debe ser posterior a desde", ErrInvalidRange)
	}
	if hasta.Sub(desde) > MaxTendenciaDias*24*time.Hour {
		return nil, fmt.Errorf("%w: máximo %d días", ErrInvalidRange, MaxTendenciaDias)
	}

	dias, err := s.analytics.GetDailyTrend(ctx, desde, hasta)
	if err != nil {
		s.log.Error("Error consultando tendencia de tareas", zap.Error(err))
		return nil, fmt.Errorf("daily trend: %w", err)
	}
	avg, err := s.analytics.GetAverageCompletionTime(ctx, desde, hasta)
	if err != nil {
		s.log.Error("Error consultando tiempo medio de completado", zap.Error(err))
		return nil, fmt.Errorf("average completion: %w", err)
	}

	out := &TendenciaTareas{
		Desde:                 desde,
		Hasta:                 hasta,
		Dias:                  dias,
		PromedioCompletadoSeg: avg.Seconds(),
	}
	if out.Dias == nil {
		out.Dias = []tareaDomain.DailyTrend{}
	}
	for _, d := range dias {
		out.Creadas += d.CreatedCount
		out.Completadas += d.CompletedCount
		out.Fallidas += d.FailedCount
	}
	return out, nil
}

// Vencimientos arma la tabla de extintores que vencen en los próximos dias.
func (s *ReportesService) Vencimientos(ctx context.Context, dias int) (*table.Table[*extintorDomain.Extintor], error) {
	if dias < 0 || dias > MaxVencimientosDias {
		return nil, fmt.Errorf("%w: dias entre 0 y %d", ErrInvalidRange, MaxVencimientosDias)
	}
	return s.vencimientos.VencimientosTable(ctx, dias)
}
