// Package mongodb persiste tareas en MongoDB con outbox transaccional.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	"github.com/davicafu/matafuegos/shared/platform/persistence/mongostore"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const TareasCollection = "tareas"

// tareaFields mapea el campo público al atributo del documento.
var tareaFields = persistence.Columns{
	"id":               "_id",
	"titulo":           "titulo",
	"descripcion":      "descripcion",
	"tipo":             "tipo",
	"asignado_id":      "asignadoId",
	"estado":           "estado",
	"sucursal_id":      "sucursalId",
	"fecha_programada": "fechaProgramada",
	"created_at":       "createdAt",
	"updated_at":       "updatedAt",
}

// TareaRepoMongoDB implementa TareaRepository para MongoDB.
type TareaRepoMongoDB struct {
	client     *mongo.Client
	tareasColl *mongo.Collection
	outboxColl *mongo.Collection
}

func NewTareaRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*TareaRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &TareaRepoMongoDB{
		client:     client,
		tareasColl: db.Collection(TareasCollection),
		outboxColl: db.Collection(mongostore.OutboxCollection),
	}, nil
}

var _ tareaDomain.TareaRepository = (*TareaRepoMongoDB)(nil)

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoTarea struct {
	ID              string     `bson:"_id"`
	Titulo          string     `bson:"titulo"`
	Descripcion     string     `bson:"descripcion"`
	Tipo            string     `bson:"tipo"`
	AsignadoID      string     `bson:"asignadoId"`
	Estado          string     `bson:"estado"`
	SucursalID      *string    `bson:"sucursalId,omitempty"`
	FechaProgramada *time.Time `bson:"fechaProgramada,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

// inTx corre fn y el insert del outbox en la misma transacción.
func (r *TareaRepoMongoDB) inTx(ctx context.Context, evt sharedDomain.OutboxEvent, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := fn(sessCtx); err != nil {
			return nil, err
		}
		return nil, mongostore.InsertOutbox(sessCtx, r.outboxColl, evt)
	})
	return err
}

// --- CRUD Transaccional ---

func (r *TareaRepoMongoDB) Create(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	return r.inTx(ctx, evt, func(sessCtx mongo.SessionContext) error {
		_, err := r.tareasColl.InsertOne(sessCtx, toMongoTarea(t))
		if mongo.IsDuplicateKeyError(err) {
			return tareaDomain.ErrTareaAlreadyExists
		}
		return err
	})
}

func (r *TareaRepoMongoDB) Update(ctx context.Context, t *tareaDomain.Tarea, evt sharedDomain.OutboxEvent) error {
	return r.inTx(ctx, evt, func(sessCtx mongo.SessionContext) error {
		mt := toMongoTarea(t)
		res, err := r.tareasColl.ReplaceOne(sessCtx, bson.M{"_id": mt.ID}, mt)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return tareaDomain.ErrTareaNotFound
		}
		return nil
	})
}

func (r *TareaRepoMongoDB) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.inTx(ctx, evt, func(sessCtx mongo.SessionContext) error {
		res, err := r.tareasColl.DeleteOne(sessCtx, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return tareaDomain.ErrTareaNotFound
		}
		return nil
	})
}

// --- Lectura ---

func (r *TareaRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*tareaDomain.Tarea, error) {
	var mt mongoTarea
	err := r.tareasColl.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tareaDomain.ErrTareaNotFound
		}
		return nil, err
	}
	return fromMongoTarea(&mt)
}

func (r *TareaRepoMongoDB) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*tareaDomain.Tarea, error) {
	filter, err := mongostore.ToFilter(criteria, tareaFields)
	if err != nil {
		return nil, err
	}
	opts, err := mongostore.FindOptions(sort, pagination, tareaFields, "createdAt")
	if err != nil {
		return nil, err
	}

	cursor, err := r.tareasColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tareas []*tareaDomain.Tarea
	for cursor.Next(ctx) {
		var mt mongoTarea
		if err := cursor.Decode(&mt); err != nil {
			return nil, err
		}
		t, err := fromMongoTarea(&mt)
		if err != nil {
			return nil, err
		}
		tareas = append(tareas, t)
	}
	return tareas, cursor.Err()
}

// --- Helpers de Mapeo y Conversión ---

func toMongoTarea(t *tareaDomain.Tarea) *mongoTarea {
	mt := &mongoTarea{
		ID: t.ID.String(), Titulo: t.Titulo, Descripcion: t.Descripcion, Tipo: string(t.Tipo),
		AsignadoID: t.AsignadoID.String(), Estado: string(t.Estado), FechaProgramada: t.FechaProgramada,
		CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC(),
	}
	if t.SucursalID != nil {
		s := t.SucursalID.String()
		mt.SucursalID = &s
	}
	return mt
}

func fromMongoTarea(mt *mongoTarea) (*tareaDomain.Tarea, error) {
	id, err := uuid.Parse(mt.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid tarea id: %w", err)
	}
	asignado, err := uuid.Parse(mt.AsignadoID)
	if err != nil {
		return nil, fmt.Errorf("invalid asignadoId: %w", err)
	}
	t := &tareaDomain.Tarea{
		ID: id, Titulo: mt.Titulo, Descripcion: mt.Descripcion, Tipo: tareaDomain.Tipo(mt.Tipo),
		AsignadoID: asignado, Estado: tareaDomain.Estado(mt.Estado),
		CreatedAt: mt.CreatedAt.UTC(), UpdatedAt: mt.UpdatedAt.UTC(),
	}
	if mt.SucursalID != nil {
		s, err := uuid.Parse(*mt.SucursalID)
		if err != nil {
			return nil, fmt.Errorf("invalid sucursalId: %w", err)
		}
		t.SucursalID = &s
	}
	if mt.FechaProgramada != nil {
		p := mt.FechaProgramada.UTC()
		t.FechaProgramada = &p
	}
	return t, nil
}
