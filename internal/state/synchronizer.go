package state

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Matcher reports whether item matches an already lower-cased query.
type Matcher[T any] func(item T, query string) bool

// Synchronizer owns the local copy of a backend collection.
type Synchronizer[T any] struct {
	cell  *cell[[]T]
	match Matcher[T]
}

// NewSynchronizer builds a Synchronizer around a list fetch.
func NewSynchronizer[T any](name string, fetch func(ctx context.Context) ([]T, error), match Matcher[T], logger *zap.Logger) *Synchronizer[T] {
	return &Synchronizer[T]{cell: newCell(name, fetch, logger), match: match}
}

// Mount performs the fetch-on-mount exactly once.
func (s *Synchronizer[T]) Mount(ctx context.Context) error { return s.cell.mount(ctx) }

// Refresh refetches the collection and replaces it wholesale on success.
// On failure the stale items stay available and the error slot is set.
func (s *Synchronizer[T]) Refresh(ctx context.Context) error { return s.cell.refresh(ctx) }

// Unmount discards the synchronizer; in-flight responses are not applied.
func (s *Synchronizer[T]) Unmount() { s.cell.unmount() }

// Items returns a copy of the cached collection.
func (s *Synchronizer[T]) Items() []T {
	items, _ := s.cell.get()
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Find returns the first item satisfying pred.
func (s *Synchronizer[T]) Find(pred func(T) bool) (T, bool) {
	items, _ := s.cell.get()
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Search filters the cached items with a case-insensitive query. It is recomputed on every call.
func (s *Synchronizer[T]) Search(query string) []T {
	return Filter(s.Items(), query, s.match)
}

// Meta returns loading and error state.
func (s *Synchronizer[T]) Meta() Meta { return s.cell.meta() }

// Snapshot renders the list section for a query.
func (s *Synchronizer[T]) Snapshot(query string) ListState[T] {
	return ListFrom(s.cell.meta(), s.Items(), query, s.match)
}

// ListFrom renders a list section from items held elsewhere, such as a slice inside
// a Resource value.
func ListFrom[T any](meta Meta, all []T, query string, match Matcher[T]) ListState[T] {
	if all == nil {
		all = []T{}
	}
	return ListState[T]{
		Meta:    meta,
		Section: sectionOf(meta, len(all) == 0),
		Query:   strings.TrimSpace(query),
		Total:   len(all),
		Items:   Filter(all, query, match),
	}
}

// ListState is the rendered form of a synchronized collection.
type ListState[T any] struct {
	Meta
	Section Section `json:"section"`
	Query   string  `json:"query,omitempty"`
	Total   int     `json:"total"`
	Items   []T     `json:"items"`
}

// Filter applies a matcher with a trimmed, lower-cased query. Empty queries keep everything.
func Filter[T any](items []T, query string, match Matcher[T]) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || match == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item, q) {
			out = append(out, item)
		}
	}
	return out
}

// ContainsFold reports whether any field contains the lower-cased query.
func ContainsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
