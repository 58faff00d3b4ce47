// Package storage provides durable key-value persistence for the content
// store's collections.
//
// A Backend stores opaque JSON documents keyed by entity ID inside named
// collections. Collections are physically isolated from one another (one
// subdirectory or keyspace each) so a key collision in one collection can
// never affect another.
//
// Three implementations mirror the deployment tiers:
//   - FileBackend: one JSON file per document, for CLI and single-node use
//   - MemoryBackend: in-process maps, for tests
//   - MongoBackend: one Mongo collection per logical collection, for
//     multi-instance deployments (optionally fronted by a RedisIndex for
//     cheap key enumeration)
//
// Backends operate at the byte level; decoding and validation belong to the
// codec in pkg/visual. Writes are atomic from a reader's point of view:
// readers never observe a partially written document.
package storage

import "context"

// Collection names used by the content store. Each is an isolated keyspace.
const (
	CollectionFlowcharts     = "flowcharts"
	CollectionVisualizations = "visualizations"
	CollectionVocabulary     = "vocabulary"
	CollectionPronunciation  = "pronunciation"
)

// Collections lists every collection the content store uses, in creation
// order.
func Collections() []string {
	return []string{
		CollectionFlowcharts,
		CollectionVisualizations,
		CollectionVocabulary,
		CollectionPronunciation,
	}
}

// ScanFunc receives one document per call during a Scan. Returning an error
// stops the scan and propagates the error to the Scan caller.
type ScanFunc func(id string, data []byte) error

// Backend is the storage contract shared by all implementations.
type Backend interface {
	// Ensure lazily and idempotently creates the given collections. It is
	// called once at service construction, before any write.
	Ensure(ctx context.Context, collections ...string) error

	// Put upserts a whole document. There are no partial-field updates at
	// this layer; callers read-modify-write.
	Put(ctx context.Context, collection, id string, data []byte) error

	// Get retrieves a document by ID. Returns a NOT_FOUND error if absent.
	Get(ctx context.Context, collection, id string) ([]byte, error)

	// Scan visits every document in the collection. Each call produces a
	// fresh, finite walk; visit order is unspecified.
	Scan(ctx context.Context, collection string, fn ScanFunc) error

	// Delete removes a document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Close releases backend resources.
	Close() error
}
