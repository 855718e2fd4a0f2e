package events

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	// Enrutamiento: no viajan en el payload
	Topic string `json:"-"`
	Key   string `json:"-"`
}

// NewIntegrationEvent serializa payload como Data.
func NewIntegrationEvent(eventType, topic, key string, payload interface{}) (IntegrationEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Topic:     topic,
		Key:       key,
	}, nil
}

func (e IntegrationEvent) PartitionKey() string { return e.Key }

func (e IntegrationEvent) EventTopic() string { return e.Topic }

type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

// MergeRegistries une los registros de cada contexto. Ante tipos repetidos gana el último.
func MergeRegistries(registries ...map[string]EventMetadata) map[string]EventMetadata {
	out := make(map[string]EventMetadata)
	for _, r := range registries {
		for k, v := range r {
			out[k] = v
		}
	}
	return out
}

// EntityDeleted es el payload de los eventos de borrado.
type EntityDeleted struct {
	ID uuid.UUID `json:"id"`
}
