// Package view holds the two-phase update used by list and board views: an
// optimistic local projection followed by an authoritative re-fetch. The
// re-fetch always wins, even when it disagrees with the projection.
package view

import (
	"context"
	"fmt"
	"sync"
)

// Loader fetches the authoritative collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Outcome reports both phases of a mutation.
type Outcome[T any] struct {
	Optimistic    []T `json:"optimistic"`
	Authoritative []T `json:"authoritative"`
}

// Reconciler owns one view's in-memory collection.
type Reconciler[T any] struct {
	load Loader[T]

	mu    sync.Mutex
	items []T
}

// NewReconciler creates a reconciler backed by load.
func NewReconciler[T any](load Loader[T]) *Reconciler[T] {
	return &Reconciler[T]{load: load}
}

// Refresh replaces the collection with a fresh load.
func (r *Reconciler[T]) Refresh(ctx context.Context) ([]T, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading view: %w", err)
	}
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return cloneItems(items), nil
}

// Items returns a copy of the current collection.
func (r *Reconciler[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneItems(r.items)
}

// Mutate applies optimistic to the current collection, runs commit, then
// reloads. If commit fails the previous collection is restored and the error
// returned. If only the reload fails, the optimistic projection stays
// visible and the error is returned.
func (r *Reconciler[T]) Mutate(ctx context.Context, optimistic func([]T) []T, commit func(ctx context.Context) error) (Outcome[T], error) {
	r.mu.Lock()
	prior := r.items
	projected := optimistic(cloneItems(prior))
	r.items = projected
	r.mu.Unlock()

	out := Outcome[T]{Optimistic: cloneItems(projected)}

	if err := commit(ctx); err != nil {
		r.mu.Lock()
		r.items = prior
		r.mu.Unlock()
		return out, err
	}

	authoritative, err := r.Refresh(ctx)
	if err != nil {
		return out, err
	}
	out.Authoritative = authoritative
	return out, nil
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
