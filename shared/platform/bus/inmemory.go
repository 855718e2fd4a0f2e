package bus

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic.
type InMemoryEventBus struct {
	subscribers []chan interface{}
	mu          sync.RWMutex
	topic       string // Identificador del topic que maneja este bus
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ EventPublisher = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus crea un bus de eventos para un topic específico.
func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan interface{}, 0),
		topic:       topic,
	}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish serializa el evento y lo envía a todos los suscriptores de este bus.
// Un suscriptor con el buffer lleno pierde el mensaje.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payloadBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := make([]chan interface{}, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	if len(subs) > 0 {
		go distribute(subs, payloadBytes)
	}
	return nil
}

func distribute(subs []chan interface{}, event interface{}) {
	for _, subChan := range subs {
		select {
		case subChan <- event:
		default:
		}
	}
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan interface{}, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// BackgroundConsumerChan consume en una goroutine los mensajes ([]byte) de un canal
// del bus en memoria y los pasa al handler.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, handler MessageHandler, log *zap.Logger) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("Consumidor en memoria detenido")
				return
			case msg := <-ch:
				// La 'key' no es relevante en el bus en memoria, pasamos una vacía.
				if payload, ok := msg.([]byte); ok {
					handler.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
