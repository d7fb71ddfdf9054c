// Package mongokv stores values as {_id: key, value} documents of a MongoDB collection.
package mongokv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/deptportal/core"
)

const CollectionName = "kv_store"

type document struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Storage struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ core.StorageCloser = (*Storage)(nil)

// Connect dials uri and checks the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongo")
	}
	return client, nil
}

func New(client *mongo.Client, database string) *Storage {
	return &Storage{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
	}
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "finding %q", key)
	}
	return doc.Value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	doc := document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "upserting %q", key)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return errors.Wrapf(err, "deleting %q", key)
	}
	return nil
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
