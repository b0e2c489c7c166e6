package sessions

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides token persistence operations
type Repository interface {
	// Replace atomically removes every token of t.AccountID and stores t.
	Replace(ctx context.Context, t *Token) error
	// GetByToken returns (nil, nil) when the token is unknown.
	GetByToken(ctx context.Context, token string) (*Token, error)
}

// MongoRepository implements Repository using a Mongo collection. The
// per-account document is replaced in a single upsert, so two concurrent
// logins for the same account can never leave two tokens behind.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("auth_tokens indexes: %w", err)
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) Replace(ctx context.Context, t *Token) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"user_id": t.AccountID}, t, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository) GetByToken(ctx context.Context, token string) (*Token, error) {
	var t Token
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// MemoryRepository keeps tokens in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	byToken   map[string]*Token
	byAccount map[int64]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byToken: map[string]*Token{}, byAccount: map[int64]string{}}
}

func (m *MemoryRepository) Replace(ctx context.Context, t *Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byAccount[t.AccountID]; ok {
		delete(m.byToken, old)
	}
	cp := *t
	m.byToken[t.Token] = &cp
	m.byAccount[t.AccountID] = t.Token
	return nil
}

func (m *MemoryRepository) GetByToken(ctx context.Context, token string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}
