package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/davicafu/matafuegos/internal/mocks"
	"github.com/davicafu/matafuegos/internal/tarea/application"
	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func message(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.NewIntegrationEvent(eventType, tareaDomain.TareaTopic, "", payload)
	require.NoError(t, err)
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func newConsumer() (*TareaConsumer, *application.TareaService, *mocks.InMemoryTareaRepo) {
	repo := mocks.NewInMemoryTareaRepo()
	service := application.NewTareaService(repo, nil, nil, 0, nil, zap.NewNop())
	return NewTareaConsumer(service, zap.NewNop()), service, repo
}

func TestTareaConsumer_CreatedIsIdempotent(t *testing.T) {
	consumer, service, repo := newConsumer()
	id, asignado := uuid.New(), uuid.New()
	msg := message(t, tareaDomain.TareaCreated, sharedEvents.TareaCreated{ID: id, Titulo: "Inspección", Tipo: "inspeccion", AsignadoID: asignado})

	consumer.HandleMessage(context.Background(), id.String(), msg)
	consumer.HandleMessage(context.Background(), id.String(), msg)

	got, err := service.GetTarea(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, asignado, got.AsignadoID)
	assert.Equal(t, []string{tareaDomain.TareaCreated}, repo.EventTypes())
}

func TestTareaConsumer_UpdatedAppliesFieldsAndState(t *testing.T) {
	ctx := context.Background()
	consumer, service, repo := newConsumer()
	tarea, err := service.CreateTarea(ctx, application.CreateTareaInput{Titulo: "Recarga", Tipo: "mantenimiento", AsignadoID: uuid.New()})
	require.NoError(t, err)

	evt := tarea.UpdatedEvent()
	evt.Titulo = "Recarga CO2"
	evt.Estado = string(tareaDomain.EstadoCompletada)
	consumer.HandleMessage(ctx, "", message(t, tareaDomain.TareaUpdated, evt))

	stored, err := repo.Store.Get(tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Recarga CO2", stored.Titulo)
	assert.Equal(t, tareaDomain.EstadoCompletada, stored.Estado)
	events := len(repo.EventTypes())

	// El mismo evento de vuelta no escribe.
	consumer.HandleMessage(ctx, "", message(t, tareaDomain.TareaUpdated, stored.UpdatedEvent()))
	assert.Len(t, repo.EventTypes(), events)
}

func TestTareaConsumer_Deleted(t *testing.T) {
	ctx := context.Background()
	consumer, service, repo := newConsumer()
	tarea, err := service.CreateTarea(ctx, application.CreateTareaInput{Titulo: "Relevar", Tipo: "relevamiento", AsignadoID: uuid.New()})
	require.NoError(t, err)

	msg := message(t, tareaDomain.TareaDeleted, sharedEvents.EntityDeleted{ID: tarea.ID})
	consumer.HandleMessage(ctx, "", msg)
	consumer.HandleMessage(ctx, "", msg)

	assert.Equal(t, []string{tareaDomain.TareaCreated, tareaDomain.TareaDeleted}, repo.EventTypes())
}

func TestTareaConsumer_IgnoresGarbage(t *testing.T) {
	consumer, _, repo := newConsumer()

	consumer.HandleMessage(context.Background(), "", []byte("{"))
	consumer.HandleMessage(context.Background(), "", message(t, "tarea.archivada", map[string]string{}))
	consumer.HandleMessage(context.Background(), "", message(t, tareaDomain.TareaUpdated, sharedEvents.TareaUpdated{ID: uuid.New()}))

	assert.Empty(t, repo.EventTypes())
}

func TestAnalyticsConsumer_FlushesByBatchSize(t *testing.T) {
	repo := new(mocks.MockTareaAnalyticsRepository)
	repo.On("LogBatch", mock.Anything, mock.MatchedBy(func(entries []tareaDomain.LogEntry) bool {
		return len(entries) == 2 &&
			entries[0].EventType == tareaDomain.TareaCreated &&
			entries[1].Tarea.Estado == tareaDomain.EstadoCompletada
	})).Return(nil).Once()

	consumer := NewAnalyticsConsumer(repo, 2, time.Hour, zap.NewNop())
	id := uuid.New()
	consumer.HandleMessage(context.Background(), "", message(t, tareaDomain.TareaCreated, sharedEvents.TareaCreated{ID: id, Titulo: "X", Tipo: "inspeccion"}))
	assert.Equal(t, 1, consumer.Pending())
	consumer.HandleMessage(context.Background(), "", message(t, tareaDomain.TareaUpdated, sharedEvents.TareaUpdated{ID: id, Estado: "completada"}))

	assert.Zero(t, consumer.Pending())
	repo.AssertExpectations(t)
}

func TestAnalyticsConsumer_KeepsBatchOnError(t *testing.T) {
	repo := new(mocks.MockTareaAnalyticsRepository)
	repo.On("LogBatch", mock.Anything, mock.Anything).Return(errors.New("clickhouse down")).Once()
	repo.On("LogBatch", mock.Anything, mock.Anything).Return(nil).Once()

	consumer := NewAnalyticsConsumer(repo, 10, time.Hour, zap.NewNop())
	consumer.HandleMessage(context.Background(), "", message(t, tareaDomain.TareaCreated, sharedEvents.TareaCreated{ID: uuid.New()}))

	consumer.Flush(context.Background())
	assert.Equal(t, 1, consumer.Pending())
	consumer.Flush(context.Background())
	assert.Zero(t, consumer.Pending())
	repo.AssertExpectations(t)
}
