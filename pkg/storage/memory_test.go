package storage

import (
	"context"
	"testing"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

func TestMemoryBackendPutGetDelete(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	if err := b.Ensure(ctx, Collections()...); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if err := b.Put(ctx, CollectionVocabulary, "vocab_1", []byte(`{"word":"casa"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := b.Get(ctx, CollectionVocabulary, "vocab_1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"word":"casa"}` {
		t.Errorf("Get() = %s", got)
	}

	if err := b.Delete(ctx, CollectionVocabulary, "vocab_1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := b.Get(ctx, CollectionVocabulary, "vocab_1"); !errors.IsNotFound(err) {
		t.Errorf("Get() after delete error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryBackendGetReturnsCopy(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if err := b.Put(ctx, CollectionFlowcharts, "flowchart_1", []byte(`{"n":1}`)); err != nil {
		t.Fatal(err)
	}
	got, err := b.Get(ctx, CollectionFlowcharts, "flowchart_1")
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 'X'

	again, err := b.Get(ctx, CollectionFlowcharts, "flowchart_1")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != `{"n":1}` {
		t.Errorf("stored doc mutated through returned slice: %s", again)
	}
}

func TestMemoryBackendScan(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := b.Put(ctx, CollectionVisualizations, id, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}

	var count int
	err := b.Scan(ctx, CollectionVisualizations, func(id string, data []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Scan() visited %d docs, want 3", count)
	}
}
