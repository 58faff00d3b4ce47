package storage

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// keyPrefix namespaces the index sets in a shared Redis instance.
const keyPrefix = "linguaviz:idx:"

// RedisIndex maintains a set of document IDs per collection. In
// multi-instance deployments it is the fast enumeration tier in front of a
// MongoBackend: listing reads IDs from Redis and fetches only the documents
// it needs, instead of walking the whole collection.
//
// The index is an optimization, not a source of truth; it can be rebuilt at
// any time from a full backend scan.
type RedisIndex struct {
	client *redis.Client
}

// NewRedisIndex connects to Redis and verifies the connection.
func NewRedisIndex(ctx context.Context, addr string) (*RedisIndex, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping redis at %s", addr)
	}
	return &RedisIndex{client: client}, nil
}

// Add records a document ID in the collection's index set.
func (i *RedisIndex) Add(ctx context.Context, collection, id string) error {
	return i.client.SAdd(ctx, keyPrefix+collection, id).Err()
}

// Remove drops a document ID from the collection's index set.
func (i *RedisIndex) Remove(ctx context.Context, collection, id string) error {
	return i.client.SRem(ctx, keyPrefix+collection, id).Err()
}

// Keys returns all indexed document IDs for the collection.
func (i *RedisIndex) Keys(ctx context.Context, collection string) ([]string, error) {
	return i.client.SMembers(ctx, keyPrefix+collection).Result()
}

// Close releases the Redis connection.
func (i *RedisIndex) Close() error {
	return i.client.Close()
}

// IndexedBackend wraps a Backend with a RedisIndex. Writes keep the index in
// step with the document tier; scans enumerate via the index and fall back
// to a full backend scan if the index is unavailable.
type IndexedBackend struct {
	Backend
	index *RedisIndex
}

// NewIndexedBackend combines a document backend with a Redis index tier.
func NewIndexedBackend(backend Backend, index *RedisIndex) *IndexedBackend {
	return &IndexedBackend{Backend: backend, index: index}
}

// Put stores the document, then indexes its ID. A document that is stored
// but not indexed is still reachable through the fallback scan; the reverse
// order could instead advertise an ID with no document behind it.
func (b *IndexedBackend) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := b.Backend.Put(ctx, collection, id, data); err != nil {
		return err
	}
	return b.index.Add(ctx, collection, id)
}

// Scan enumerates IDs from the index and fetches each document. Indexed IDs
// whose document has since been deleted are skipped. If the index read
// fails, Scan falls back to the underlying backend's full walk.
func (b *IndexedBackend) Scan(ctx context.Context, collection string, fn ScanFunc) error {
	ids, err := b.index.Keys(ctx, collection)
	if err != nil {
		return b.Backend.Scan(ctx, collection, fn)
	}

	for _, id := range ids {
		data, err := b.Backend.Get(ctx, collection, id)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the document, then its index entry.
func (b *IndexedBackend) Delete(ctx context.Context, collection, id string) error {
	if err := b.Backend.Delete(ctx, collection, id); err != nil {
		return err
	}
	return b.index.Remove(ctx, collection, id)
}

// Close releases both tiers.
func (b *IndexedBackend) Close() error {
	indexErr := b.index.Close()
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return indexErr
}

// Ensure IndexedBackend implements Backend.
var _ Backend = (*IndexedBackend)(nil)
