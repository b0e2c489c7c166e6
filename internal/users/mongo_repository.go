package users

import (
	"context"
	"fmt"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using MongoDB. Numeric ids come from
// the "accounts" sequence in the counters collection.
type MongoRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// NewMongoRepository creates the repository and ensures a unique email index.
func NewMongoRepository(ctx context.Context, col, counters *mongo.Collection) (*MongoRepository, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("accounts index: %w", err)
	}
	return &MongoRepository{col: col, counters: counters}, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var a models.Account
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Account) error {
	existing, err := r.FindByEmail(ctx, a.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateIdentity
	}
	id, err := database.NextSequence(ctx, r.counters, "accounts")
	if err != nil {
		return err
	}
	a.ID = id
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}
