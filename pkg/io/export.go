// Package io implements archive export and import for the content store.
//
// An archive is a single JSON document holding every collection's documents
// in their persisted form. Archives round-trip: importing an exported
// archive reproduces the store's contents byte for byte.
package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/linguaviz/linguaviz/pkg/storage"
	"github.com/linguaviz/linguaviz/pkg/visual"
)

// Archive is the on-disk layout of an exported content store.
type Archive struct {
	ExportedAt  visual.Timestamp                      `json:"exported_at"`
	Collections map[string]map[string]json.RawMessage `json:"collections"`
}

// Export reads every document from every collection and writes the archive
// to w as indented JSON.
func Export(ctx context.Context, backend storage.Backend, w io.Writer) error {
	archive := Archive{
		ExportedAt:  visual.Now(),
		Collections: map[string]map[string]json.RawMessage{},
	}

	for _, collection := range storage.Collections() {
		docs := map[string]json.RawMessage{}
		err := backend.Scan(ctx, collection, func(id string, data []byte) error {
			docs[id] = json.RawMessage(append([]byte(nil), data...))
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", collection, err)
		}
		archive.Collections[collection] = docs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

// ExportFile exports the store to the named file.
func ExportFile(ctx context.Context, backend storage.Backend, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	if err := Export(ctx, backend, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
