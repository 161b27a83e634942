// Package mongo é o backend de documentos na nuvem. Cada coleção lógica vira
// uma coleção do MongoDB; o corpo JSON vai inteiro no campo "body", para que
// os três backends devolvam exatamente o mesmo documento.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"souq/internal/apperr"
)

type record struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	var rec record
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal([]byte(rec.Body), out)
}

func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	rec := record{ID: id, Body: string(body), UpdatedAt: time.Now().UTC()}
	_, err = s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var recs []record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	out := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, json.RawMessage(r.Body))
	}
	return out, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
