package db

import (
	"context"
	"fmt"

	"github.com/mezonai/tokencore/logx"
	"github.com/redis/go-redis/v9"
)

const (
	redisPageSize = 1000
	// redisKeyIndex is the sorted set holding every stored key
	redisKeyIndex = "tokencore:keyindex"
)

// RedisProvider implements IterableProvider for Redis. Store keys are
// printable, so they are used as Redis keys unchanged. Every key is also a
// member of a sorted set with score 0, which orders members by bytes and
// lets range scans use ZRANGEBYLEX instead of walking the keyspace.
type RedisProvider struct {
	client   *redis.Client
	ctx      context.Context
	pageSize int64
}

// NewRedisProvider creates a new Redis provider
func NewRedisProvider(address string, db int) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr: address,
		DB:   db,
	})
	return NewRedisProviderWithClient(client)
}

// NewRedisProviderWithClient wraps an existing client and checks the connection
func NewRedisProviderWithClient(client *redis.Client) (*RedisProvider, error) {
	ctx := context.Background()

	// Test connection
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProvider{
		client:   client,
		ctx:      ctx,
		pageSize: redisPageSize,
	}, nil
}

// Get retrieves a value by key
func (p *RedisProvider) Get(key []byte) ([]byte, error) {
	value, err := p.client.Get(p.ctx, string(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Return nil for not found, consistent with interface
		}
		return nil, err
	}
	return value, nil
}

// GetBatch retrieves multiple values with a single MGET
func (p *RedisProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	strKeys := make([]string, len(keys))
	for i, k := range keys {
		strKeys[i] = string(k)
	}
	values, err := p.client.MGet(p.ctx, strKeys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			result[strKeys[i]] = []byte(s)
		}
	}
	return result, nil
}

// Put stores a key-value pair
func (p *RedisProvider) Put(key, value []byte) error {
	logx.Debug("REDIS", "Put key:", string(key), "value length:", len(value))
	pipe := p.client.TxPipeline()
	pipe.Set(p.ctx, string(key), value, 0)
	pipe.ZAdd(p.ctx, redisKeyIndex, redis.Z{Member: string(key)})
	_, err := pipe.Exec(p.ctx)
	return err
}

// Delete removes a key-value pair
func (p *RedisProvider) Delete(key []byte) error {
	pipe := p.client.TxPipeline()
	pipe.Del(p.ctx, string(key))
	pipe.ZRem(p.ctx, redisKeyIndex, string(key))
	_, err := pipe.Exec(p.ctx)
	return err
}

// Has checks if a key exists
func (p *RedisProvider) Has(key []byte) (bool, error) {
	count, err := p.client.Exists(p.ctx, string(key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close closes the database connection
func (p *RedisProvider) Close() error {
	return p.client.Close()
}

// Batch returns a new batch executed as one MULTI/EXEC transaction
func (p *RedisProvider) Batch() DatabaseBatch {
	return &RedisBatch{
		client: p.client,
		ctx:    p.ctx,
		pipe:   p.client.TxPipeline(),
	}
}

// IteratePrefix implements IterableProvider for Redis
func (p *RedisProvider) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	return p.IterateRange(prefix, PrefixLimit(prefix), fn)
}

// IterateRange pages through the key index with ZRANGEBYLEX, so a scan costs
// the keys inside [start, limit) rather than the whole keyspace.
func (p *RedisProvider) IterateRange(start, limit []byte, fn func(key, value []byte) bool) error {
	lexMin := "-"
	if len(start) > 0 {
		lexMin = "[" + string(start)
	}
	lexMax := "+"
	if limit != nil {
		lexMax = "(" + string(limit)
	}

	for {
		keys, err := p.client.ZRangeByLex(p.ctx, redisKeyIndex, &redis.ZRangeBy{
			Min:   lexMin,
			Max:   lexMax,
			Count: p.pageSize,
		}).Result()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}

		values, err := p.client.MGet(p.ctx, keys...).Result()
		if err != nil {
			return err
		}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				// deleted between ZRANGEBYLEX and MGET
				continue
			}
			if !fn([]byte(keys[i]), []byte(s)) {
				return nil
			}
		}

		if int64(len(keys)) < p.pageSize {
			return nil
		}
		lexMin = "(" + keys[len(keys)-1]
	}
}

// RedisBatch implements DatabaseBatch for Redis
type RedisBatch struct {
	client *redis.Client
	ctx    context.Context
	pipe   redis.Pipeliner
}

// Put adds a key-value pair to the batch
func (b *RedisBatch) Put(key, value []byte) {
	b.pipe.Set(b.ctx, string(key), value, 0)
	b.pipe.ZAdd(b.ctx, redisKeyIndex, redis.Z{Member: string(key)})
}

// Delete adds a deletion to the batch
func (b *RedisBatch) Delete(key []byte) {
	b.pipe.Del(b.ctx, string(key))
	b.pipe.ZRem(b.ctx, redisKeyIndex, string(key))
}

// Write commits all operations in the batch
func (b *RedisBatch) Write() error {
	if b.pipe.Len() == 0 {
		return nil
	}
	_, err := b.pipe.Exec(b.ctx)
	return err
}

// Reset clears the batch
func (b *RedisBatch) Reset() {
	b.pipe.Discard()
	b.pipe = b.client.TxPipeline()
}

// Close releases batch resources
func (b *RedisBatch) Close() {
	b.pipe.Discard()
}
