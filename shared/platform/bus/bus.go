package bus

import (
	"context"
	"fmt"
)

type Keyer interface {
	PartitionKey() string
}

// Topicer lo implementan los eventos que saben a qué topic van.
type Topicer interface {
	EventTopic() string
}

// La semántica de topic/nombre y formato del payload la decides en los adapters.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// MessageHandler define la interfaz que debe cumplir cualquier consumidor de eventos.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// Router envía cada evento al publisher de su topic. Los eventos sin topic
// (o con un topic sin publisher) van al fallback si existe.
type Router struct {
	routes   map[string]EventPublisher
	fallback EventPublisher
}

func NewRouter(fallback EventPublisher) *Router {
	return &Router{routes: make(map[string]EventPublisher), fallback: fallback}
}

// Route registra el publisher de un topic.
func (r *Router) Route(topic string, p EventPublisher) *Router {
	r.routes[topic] = p
	return r
}

func (r *Router) Publish(ctx context.Context, event interface{}) error {
	if t, ok := event.(Topicer); ok {
		if p, ok := r.routes[t.EventTopic()]; ok {
			return p.Publish(ctx, event)
		}
	}
	if r.fallback == nil {
		return fmt.Errorf("no publisher for event %T", event)
	}
	return r.fallback.Publish(ctx, event)
}

var _ EventPublisher = (*Router)(nil)
