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

// Import reads an archive from r and writes every document it contains into
// the backend. Existing documents with the same IDs are overwritten.
//
// Every document is validated with its collection's codec before anything
// is written, so a corrupt archive leaves the store untouched. Unknown
// collection names in the archive are an error.
func Import(ctx context.Context, backend storage.Backend, r io.Reader) (int, error) {
	var archive Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return 0, fmt.Errorf("decode archive: %w", err)
	}

	known := map[string]bool{}
	for _, c := range storage.Collections() {
		known[c] = true
	}

	for collection, docs := range archive.Collections {
		if !known[collection] {
			return 0, fmt.Errorf("archive contains unknown collection %q", collection)
		}
		for id, doc := range docs {
			if err := validateDoc(collection, doc); err != nil {
				return 0, fmt.Errorf("archive document %s/%s: %w", collection, id, err)
			}
		}
	}

	if err := backend.Ensure(ctx, storage.Collections()...); err != nil {
		return 0, err
	}

	count := 0
	for collection, docs := range archive.Collections {
		for id, doc := range docs {
			if err := backend.Put(ctx, collection, id, doc); err != nil {
				return count, fmt.Errorf("import %s/%s: %w", collection, id, err)
			}
			count++
		}
	}
	return count, nil
}

// ImportFile imports an archive from the named file.
func ImportFile(ctx context.Context, backend storage.Backend, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()
	return Import(ctx, backend, f)
}

// validateDoc runs the collection's decoder over a document.
func validateDoc(collection string, doc []byte) error {
	var err error
	switch collection {
	case storage.CollectionFlowcharts:
		_, err = visual.DecodeFlowchart(doc)
	case storage.CollectionVisualizations:
		_, err = visual.DecodeVisualization(doc)
	case storage.CollectionVocabulary:
		_, err = visual.DecodeVocabularyVisual(doc)
	case storage.CollectionPronunciation:
		_, err = visual.DecodePronunciationGuide(doc)
	}
	return err
}
