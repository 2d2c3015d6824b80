package cache

import (
	"context"
	"sync"
	"testing"
)

func TestImportRegistry(t *testing.T) {
	r := NewImportRegistry()
	ctx := context.Background()

	if exists, err := r.FindExistingImportBySourceID(ctx, "form-a"); err != nil || exists {
		t.Fatalf("empty registry: exists=%v err=%v", exists, err)
	}

	r.MarkImported("form-a")
	if exists, _ := r.FindExistingImportBySourceID(ctx, "form-a"); !exists {
		t.Error("form-a not found after MarkImported")
	}
	if exists, _ := r.FindExistingImportBySourceID(ctx, "form-b"); exists {
		t.Error("form-b should not exist")
	}

	at, ok := r.ImportedAt("form-a")
	if !ok || at.IsZero() {
		t.Errorf("ImportedAt(form-a) = (%v, %v)", at, ok)
	}

	r.MarkImported("form-a")
	again, _ := r.ImportedAt("form-a")
	if !again.Equal(at) {
		t.Error("re-recording should keep the original timestamp")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestImportRegistry_Concurrent(t *testing.T) {
	r := NewImportRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.MarkImported("shared")
			_, _ = r.FindExistingImportBySourceID(context.Background(), "shared")
		}()
	}
	wg.Wait()
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
