package kv

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by a single MongoDB collection. The key
// is the document _id and the JSON value is carried as text, which keeps
// the stored shape identical across backends.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

type mongoRecord struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// NewMongoStore connects a client and selects the records collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection("records"),
	}, nil
}

// Get returns the value stored at key, or ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var rec mongoRecord
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(rec.Value), nil
}

// Set upserts the value at key.
func (s *MongoStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.col.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoRecord{Key: key, Value: string(raw)},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes the key; absent keys are a no-op.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// GetByPrefix returns every value whose key starts with prefix.
func (s *MongoStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		out = append(out, json.RawMessage(rec.Value))
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
