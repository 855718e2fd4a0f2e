// Package scheduler envuelve robfig/cron con el logger de la aplicación.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapta zap a cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler ejecuta trabajos con expresiones cron de cinco campos (minuto hora día mes díaSemana).
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(log *zap.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	l := cronLogger{log: log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		log: log,
	}
}

// Add registra job con la expresión spec. El contexto se pasa a cada ejecución.
func (s *Scheduler) Add(ctx context.Context, name, spec string, job func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("Error en tarea programada", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Info("⏰ Tarea programada completada", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return 0, fmt.Errorf("invalid cron definition %q: %w", spec, err)
	}
	s.log.Info("Tarea programada registrada", zap.String("job", name), zap.String("spec", spec))
	return id, nil
}

// Next devuelve la próxima ejecución de una entrada.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop detiene el scheduler y espera a que terminen los trabajos en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
