package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"
)

// AnalyticsConsumer acumula los eventos de tareas y los vuelca por lotes al almacén analítico.
type AnalyticsConsumer struct {
	repo      tareaDomain.TareaAnalyticsRepository
	log       *zap.Logger
	batchSize int
	interval  time.Duration

	mu  sync.Mutex
	buf []tareaDomain.LogEntry
}

func NewAnalyticsConsumer(repo tareaDomain.TareaAnalyticsRepository, batchSize int, interval time.Duration, log *zap.Logger) *AnalyticsConsumer {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &AnalyticsConsumer{repo: repo, log: log, batchSize: batchSize, interval: interval}
}

var _ sharedBus.MessageHandler = (*AnalyticsConsumer)(nil)

func (c *AnalyticsConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for analytics", zap.String("key", key), zap.Error(err))
		return
	}
	at := base.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}

	switch base.Type {
	case tareaDomain.TareaCreated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.TareaCreated) {
			c.add(ctx, tareaDomain.LogEntry{EventType: base.Type, EventTime: at, Tarea: tareaDomain.Tarea{
				ID: evt.ID, Titulo: evt.Titulo, Tipo: tareaDomain.Tipo(evt.Tipo), AsignadoID: evt.AsignadoID,
				Estado: tareaDomain.EstadoPendiente, CreatedAt: at, UpdatedAt: at,
			}})
		})
	case tareaDomain.TareaUpdated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt sharedEvents.TareaUpdated) {
			c.add(ctx, tareaDomain.LogEntry{EventType: base.Type, EventTime: at, Tarea: tareaDomain.Tarea{
				ID: evt.ID, Titulo: evt.Titulo, Tipo: tareaDomain.Tipo(evt.Tipo), AsignadoID: evt.AsignadoID,
				Estado: tareaDomain.Estado(evt.Estado), UpdatedAt: at,
			}})
		})
	}
}

func (c *AnalyticsConsumer) add(ctx context.Context, e tareaDomain.LogEntry) {
	c.mu.Lock()
	c.buf = append(c.buf, e)
	full := len(c.buf) >= c.batchSize
	c.mu.Unlock()

	if full {
		c.Flush(ctx)
	}
}

// Flush vuelca lo acumulado. Si el insert falla, el lote vuelve al buffer.
func (c *AnalyticsConsumer) Flush(ctx context.Context) {
	c.mu.Lock()
	batch := c.buf
	c.buf = nil
	c.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	if err := c.repo.LogBatch(ctx, batch); err != nil {
		c.log.Error("Failed to log tarea batch", zap.Int("size", len(batch)), zap.Error(err))
		c.mu.Lock()
		c.buf = append(batch, c.buf...)
		c.mu.Unlock()
		return
	}
	c.log.Debug("📊 Lote de tareas registrado", zap.Int("size", len(batch)))
}

// Start vuelca periódicamente hasta que ctx se cancela; al salir intenta un último volcado.
func (c *AnalyticsConsumer) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				c.Flush(flushCtx)
				cancel()
				return
			case <-ticker.C:
				c.Flush(ctx)
			}
		}
	}()
}

// Pending devuelve cuántas entradas esperan volcado.
func (c *AnalyticsConsumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}
