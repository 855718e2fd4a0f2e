package mongostore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const OutboxCollection = "outbox"

// OutboxRepo implementa sharedDomain.OutboxRepository sobre una colección.
type OutboxRepo struct {
	outboxColl *mongo.Collection
}

func NewOutboxRepo(db *mongo.Database) *OutboxRepo {
	return &OutboxRepo{outboxColl: db.Collection(OutboxCollection)}
}

var _ sharedDomain.OutboxRepository = (*OutboxRepo)(nil)

// mongoOutboxEvent guarda el payload como JSON para que el relayer lo lea igual que en SQL.
type mongoOutboxEvent struct {
	ID            string    `bson:"_id"`
	AggregateType string    `bson:"aggregateType"`
	AggregateID   string    `bson:"aggregateId"`
	EventType     string    `bson:"eventType"`
	Payload       string    `bson:"payload"`
	CreatedAt     time.Time `bson:"createdAt"`
	Processed     bool      `bson:"processed"`
}

// InsertOutbox inserta el evento; llamar con el SessionContext de la transacción del agregado.
func InsertOutbox(ctx context.Context, coll *mongo.Collection, evt sharedDomain.OutboxEvent) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}
	_, err = coll.InsertOne(ctx, mongoOutboxEvent{
		ID:            evt.ID.String(),
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       string(payload),
		CreatedAt:     evt.CreatedAt,
	})
	return err
}

// FetchPendingOutbox obtiene los eventos no procesados de la colección outbox.
func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit))

	cursor, err := r.outboxColl.Find(ctx, bson.M{"processed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []sharedDomain.OutboxEvent
	for cursor.Next(ctx) {
		var mo mongoOutboxEvent
		if err := cursor.Decode(&mo); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(mo.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox document: %w", err)
		}
		events = append(events, sharedDomain.OutboxEvent{
			ID:            id,
			AggregateType: mo.AggregateType,
			AggregateID:   mo.AggregateID,
			EventType:     mo.EventType,
			Payload:       json.RawMessage(mo.Payload),
			CreatedAt:     mo.CreatedAt,
			Processed:     mo.Processed,
		})
	}
	return events, cursor.Err()
}

// MarkOutboxProcessed marca un evento como procesado.
func (r *OutboxRepo) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.outboxColl.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{"processed": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}
