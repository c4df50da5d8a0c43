package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

const countersCollection = "counters"

// collections maps each entity to its MongoDB collection.
var collections = map[models.Entity]string{
	models.EntityUser:                 "usuarios",
	models.EntityFarm:                 "granjas",
	models.EntityBatch:                "lotes",
	models.EntityAnimal:               "pollos",
	models.EntityGrowthSample:         "crecimiento",
	models.EntityConsumptionRecord:    "consumo",
	models.EntityFeedingRecord:        "alimentacion",
	models.EntityEnvironmentalReading: "medicion_ambiental",
	models.EntityMortalityEvent:       "mortalidad",
	models.EntityThermalMap:           "mapa_termico",
}

// MongoDBRepository stores each entity in its own collection with integer ids drawn from
// a shared counters collection.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}, nil
}

// Store inserts doc into the entity's collection.
func (r *MongoDBRepository) Store(ctx context.Context, entity models.Entity, doc any) (models.Receipt, error) {
	coll, ok := collections[entity]
	if !ok {
		return models.Receipt{}, fmt.Errorf("unknown entity %q", entity)
	}

	id, err := r.nextID(ctx, coll)
	if err != nil {
		return models.Receipt{}, apperrors.Storage("allocate id for "+entity.String(), err)
	}

	createdAt := r.now().UTC().Truncate(time.Millisecond)
	record, err := buildDocument(id, doc, createdAt)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("encode %s document: %w", entity, err)
	}

	if _, err := r.client.Database(r.dbName).Collection(coll).InsertOne(ctx, record); err != nil {
		return models.Receipt{}, apperrors.Storage("insert "+entity.String(), err)
	}

	return models.Receipt{ID: id, CreatedAt: createdAt}, nil
}

// CountSince counts the entity's documents created at or after since.
func (r *MongoDBRepository) CountSince(ctx context.Context, entity models.Entity, since time.Time) (int64, error) {
	coll, ok := collections[entity]
	if !ok {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}

	filter := bson.M{"created_at": bson.M{"$gte": since.UTC()}}
	n, err := r.client.Database(r.dbName).Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperrors.Storage("count "+entity.String(), err)
	}
	return n, nil
}

// nextID atomically increments the sequence of a collection.
func (r *MongoDBRepository) nextID(ctx context.Context, coll string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.client.Database(r.dbName).Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": coll}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// buildDocument flattens doc and adds the id and creation time.
func buildDocument(id int64, doc any, createdAt time.Time) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	out := make(bson.D, 0, len(fields)+2)
	out = append(out, bson.E{Key: "_id", Value: id})
	out = append(out, fields...)
	out = append(out, bson.E{Key: "created_at", Value: createdAt})
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
