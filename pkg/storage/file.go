package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// FileBackend stores one JSON file per document under
// <root>/<collection>/<id>.json. It is the default backend for CLI and
// single-node use.
//
// Writes go to a temporary file in the target directory and are renamed
// into place, so concurrent readers only ever observe fully written
// documents. Multiple processes can safely share the same root; the
// filesystem rename provides the atomicity.
type FileBackend struct {
	root string
}

// NewFileBackend creates a file-based backend rooted at dir.
// The root directory is created if it doesn't exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create storage root %s", dir)
	}
	return &FileBackend{root: dir}, nil
}

// Root returns the absolute path of the storage root.
func (b *FileBackend) Root() string { return b.root }

// Ensure creates the collection subdirectories. Idempotent.
func (b *FileBackend) Ensure(ctx context.Context, collections ...string) error {
	for _, c := range collections {
		if err := os.MkdirAll(filepath.Join(b.root, c), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create collection %s", c)
		}
	}
	return nil
}

// Put writes a document atomically (write-new-then-rename).
func (b *FileBackend) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	dir := filepath.Join(b.root, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create collection %s", collection)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create temp file in %s", collection)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "write document %s/%s", collection, id)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "close document %s/%s", collection, id)
	}

	if err := os.Rename(tmpName, b.path(collection, id)); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "store document %s/%s", collection, id)
	}
	return nil
}

// Get reads a document by ID.
func (b *FileBackend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path(collection, id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "document not found: %s/%s", collection, id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read document %s/%s", collection, id)
	}
	return data, nil
}

// Scan walks every document file in the collection. Temp files from
// in-flight writes are skipped. A missing collection directory is an empty
// collection, not an error.
func (b *FileBackend) Scan(ctx context.Context, collection string, fn ScanFunc) error {
	dir := filepath.Join(b.root, collection)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "scan collection %s", collection)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")

		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue // deleted mid-scan
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "read document %s/%s", collection, id)
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a document. Deleting an absent document is a no-op.
func (b *FileBackend) Delete(ctx context.Context, collection, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	err := os.Remove(b.path(collection, id))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %s/%s", collection, id)
	}
	return nil
}

// Close does nothing for the file backend.
func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) path(collection, id string) string {
	return filepath.Join(b.root, collection, id+".json")
}

// Ensure FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)
