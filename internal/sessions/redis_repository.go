package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository using Redis as the backing store.
//
// Keys:
//
//	<prefix>token:<token>     JSON Token
//	<prefix>account:<id>      current token of the account
//
// Tokens carry no TTL: they live until the next login of the same account.
type RedisRepository struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

// NewRedisRepository creates a Redis-based token repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "auth:"
	}
	return &RedisRepository{client: client, prefix: prefix, maxRetries: 10}
}

func (r *RedisRepository) tokenKey(token string) string {
	return r.prefix + "token:" + token
}

func (r *RedisRepository) accountKey(id int64) string {
	return r.prefix + "account:" + strconv.FormatInt(id, 10)
}

// Replace swaps the account's token inside a WATCH/MULTI transaction on the
// account key. A concurrent login for the same account aborts the
// transaction, which is then retried.
func (r *RedisRepository) Replace(ctx context.Context, t *Token) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	accKey := r.accountKey(t.AccountID)

	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, accKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if old != "" {
				p.Del(ctx, r.tokenKey(old))
			}
			p.Set(ctx, r.tokenKey(t.Token), b, 0)
			p.Set(ctx, accKey, t.Token, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		err = r.client.Watch(ctx, txf, accKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("replace token for account %d: %w", t.AccountID, err)
}

func (r *RedisRepository) GetByToken(ctx context.Context, token string) (*Token, error) {
	b, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var t Token
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
