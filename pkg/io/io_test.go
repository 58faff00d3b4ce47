package io

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/linguaviz/linguaviz/pkg/storage"
	"github.com/linguaviz/linguaviz/pkg/visual"
)

func seedStore(t *testing.T) *storage.MemoryBackend {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewMemoryBackend()

	svc, err := visual.NewService(ctx, backend, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := svc.CreateFlowchart(ctx, visual.CreateFlowchartInput{
		Concept:  visual.ConceptVerbConjugation,
		Title:    "Present tense",
		Language: "spanish",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddNode(ctx, f.FlowchartID, visual.AddNodeInput{Title: "stem", NodeType: visual.NodeStart}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateVocabularyVisual(ctx, visual.CreateVocabularyVisualInput{
		Word: "casa", Language: "spanish", VisualizationType: visual.VocabWordCloud,
	}); err != nil {
		t.Fatal(err)
	}
	return backend
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := seedStore(t)

	var buf bytes.Buffer
	if err := Export(ctx, src, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dst := storage.NewMemoryBackend()
	count, err := Import(ctx, dst, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Import() count = %d, want 2", count)
	}

	// The imported store must hold the same documents byte for byte.
	for _, collection := range storage.Collections() {
		err := src.Scan(ctx, collection, func(id string, want []byte) error {
			got, err := dst.Get(ctx, collection, id)
			if err != nil {
				t.Errorf("imported store missing %s/%s: %v", collection, id, err)
				return nil
			}
			if !bytes.Equal(got, want) {
				t.Errorf("document %s/%s differs after round trip", collection, id)
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestImportRejectsCorruptArchive(t *testing.T) {
	ctx := context.Background()
	dst := storage.NewMemoryBackend()

	archive := `{
		"exported_at": "2026-03-01T12:00:00",
		"collections": {
			"flowcharts": {
				"flowchart_bad": {"flowchart_id": "flowchart_bad", "concept": "quantum_grammar", "language": "es", "created_at": "2026-03-01T12:00:00"}
			}
		}
	}`
	if _, err := Import(ctx, dst, strings.NewReader(archive)); err == nil {
		t.Fatal("Import() accepted archive with invalid document")
	}

	// Nothing may have been written.
	var n int
	if err := dst.Scan(ctx, storage.CollectionFlowcharts, func(string, []byte) error { n++; return nil }); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("store has %d documents after rejected import, want 0", n)
	}
}

func TestImportRejectsUnknownCollection(t *testing.T) {
	archive := `{"exported_at": "2026-03-01T12:00:00", "collections": {"spellbooks": {}}}`
	if _, err := Import(context.Background(), storage.NewMemoryBackend(), strings.NewReader(archive)); err == nil {
		t.Fatal("Import() accepted unknown collection")
	}
}
