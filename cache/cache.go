// Package cache provides an in-memory registry of already-imported forms.
// It satisfies the orchestrator's duplicate-detection collaborator for
// embedders that do not bring their own persistence layer; anything with a
// real store implements the same one-method interface instead.
package cache

import (
	"context"
	"sync"
	"time"
)

// ImportRegistry records which source ids have been imported.
// It is safe for concurrent use.
type ImportRegistry struct {
	mu    sync.RWMutex
	store map[string]time.Time
}

// NewImportRegistry creates an empty registry.
func NewImportRegistry() *ImportRegistry {
	return &ImportRegistry{
		store: make(map[string]time.Time),
	}
}

// FindExistingImportBySourceID reports whether the source id was recorded.
func (r *ImportRegistry) FindExistingImportBySourceID(_ context.Context, sourceID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.store[sourceID]
	return ok, nil
}

// MarkImported records a completed import. Recording the same id twice is a
// no-op that keeps the original timestamp.
func (r *ImportRegistry) MarkImported(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[sourceID]; ok {
		return
	}
	r.store[sourceID] = time.Now()
}

// ImportedAt returns when the source id was recorded.
func (r *ImportRegistry) ImportedAt(sourceID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	at, ok := r.store[sourceID]
	return at, ok
}

// Len returns the number of recorded imports.
func (r *ImportRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
