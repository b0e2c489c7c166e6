package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for documents. IDs are
// numeric and drawn from the "documents" sequence in the counters collection.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col, counters *mongo.Collection) (*MongoRepo, error) {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return nil, fmt.Errorf("documents index: %w", err)
	}
	return &MongoRepo{col: col, counters: counters}, nil
}

func (m *MongoRepo) Create(ctx context.Context, d *document.Document) error {
	id, err := database.NextSequence(ctx, m.counters, "documents")
	if err != nil {
		return err
	}
	d.ID = id
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	d.UploadedAt = bsonTime(d.UploadedAt)
	_, err = m.col.InsertOne(ctx, d)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

// bsonTime truncates t to the millisecond precision of a BSON datetime, so
// the caller's copy matches what later reads return.
func bsonTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
