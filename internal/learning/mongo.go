package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/ledgerwise/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// patternCollection is the subset of *mongo.Collection the backend uses.
type patternCollection interface {
	Find(
		ctx context.Context,
		filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
	BulkWrite(
		ctx context.Context,
		models []mongo.WriteModel,
		opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}

// patternID is the document key: one document per (pattern, account) pair.
type patternID struct {
	Key         string `bson:"key"`
	AccountCode string `bson:"account_code"`
}

type patternDocument struct {
	ID                    patternID `bson:"_id"`
	model.LearningPattern `bson:",inline"`
}

// MongoBackend stores patterns as documents in a MongoDB collection.
type MongoBackend struct {
	client     *mongo.Client
	collection patternCollection
	name       string
}

var _ Backend = (*MongoBackend)(nil)

// NewMongoBackend connects to uri and uses database.collection for patterns.
func NewMongoBackend(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoBackend{
		client:     client,
		collection: client.Database(database).Collection(collection),
		name:       fmt.Sprintf("mongo:%s.%s", database, collection),
	}, nil
}

func newMongoBackendWithCollection(name string, coll patternCollection) *MongoBackend {
	return &MongoBackend{collection: coll, name: name}
}

// Name implements Backend.
func (b *MongoBackend) Name() string {
	return b.name
}

// Load implements Backend.
func (b *MongoBackend) Load(ctx context.Context) ([]model.LearningPattern, error) {
	cursor, err := b.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "last_used_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query learning patterns: %w", err)
	}

	var docs []patternDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupted, err)
	}

	patterns := make([]model.LearningPattern, 0, len(docs))
	for _, doc := range docs {
		patterns = append(patterns, doc.LearningPattern)
	}
	return patterns, nil
}

// Save implements Backend. Each pattern is upserted by its key.
func (b *MongoBackend) Save(ctx context.Context, patterns []model.LearningPattern) error {
	if len(patterns) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(patterns))
	for _, p := range patterns {
		key := p.Key()
		id := patternID{Key: key.Text, AccountCode: key.AccountCode}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: id}}).
			SetReplacement(patternDocument{ID: id, LearningPattern: p}).
			SetUpsert(true))
	}

	if _, err := b.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert learning patterns: %w", err)
	}
	return nil
}

// Close implements Backend.
func (b *MongoBackend) Close() error {
	if b.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}
