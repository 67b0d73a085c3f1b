package state

import (
	"context"

	"go.uber.org/zap"
)

// Resource is the single-object counterpart of Synchronizer, used for aggregate sections.
type Resource[T any] struct {
	cell    *cell[T]
	isEmpty func(T) bool
}

// NewResource builds a Resource around a fetch. isEmpty decides when a loaded value
// renders the empty sub-state; nil means a loaded value is always populated.
func NewResource[T any](name string, fetch func(ctx context.Context) (T, error), isEmpty func(T) bool, logger *zap.Logger) *Resource[T] {
	return &Resource[T]{cell: newCell(name, fetch, logger), isEmpty: isEmpty}
}

// Mount loads the resource once.
func (r *Resource[T]) Mount(ctx context.Context) error { return r.cell.mount(ctx) }

// Refresh reloads the resource, keeping the previous value on failure.
func (r *Resource[T]) Refresh(ctx context.Context) error { return r.cell.refresh(ctx) }

// Unmount discards the resource.
func (r *Resource[T]) Unmount() { r.cell.unmount() }

// Meta returns loading and error state.
func (r *Resource[T]) Meta() Meta { return r.cell.meta() }

// Value returns the last loaded value.
func (r *Resource[T]) Value() (T, bool) { return r.cell.get() }

// Snapshot renders the section.
func (r *Resource[T]) Snapshot() ResourceState[T] {
	meta := r.cell.meta()
	value, loaded := r.cell.get()
	empty := loaded && r.isEmpty != nil && r.isEmpty(value)
	st := ResourceState[T]{Meta: meta, Section: sectionOf(meta, empty)}
	if loaded {
		v := value
		st.Data = &v
	}
	return st
}

// ResourceState is the rendered form of a Resource.
type ResourceState[T any] struct {
	Meta
	Section Section `json:"section"`
	Data    *T      `json:"data,omitempty"`
}

// FailedSection renders a section that could not even be attempted, such as a missing session.
func FailedSection[T any](message string) ResourceState[T] {
	return ResourceState[T]{Meta: Meta{Error: message}, Section: SectionError}
}
