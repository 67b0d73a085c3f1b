package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// cell owns one remotely loaded value with its loading and error slots.
// A failed load keeps the previous value. Overlapping loads are not deduplicated:
// whichever resolves last wins. Results resolving after unmount are dropped.
type cell[T any] struct {
	name   string
	load   func(ctx context.Context) (T, error)
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	value     T
	loaded    bool
	inflight  int
	errMsg    string
	mounted   bool
	unmounted bool
	updatedAt time.Time
}

func newCell[T any](name string, load func(ctx context.Context) (T, error), logger *zap.Logger) *cell[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cell[T]{name: name, load: load, logger: logger, now: time.Now}
}

// mount loads the value the first time it is called.
func (c *cell[T]) mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted || c.unmounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *cell[T]) refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return nil
	}
	c.inflight++
	c.mu.Unlock()

	value, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.unmounted {
		c.logger.Debug("discarding result for unmounted state", zap.String("state", c.name))
		return err
	}
	if err != nil {
		c.errMsg = appErrors.DisplayMessage(err)
		c.logger.Warn("state refresh failed", zap.String("state", c.name), zap.Error(err))
		return err
	}
	c.value = value
	c.loaded = true
	c.errMsg = ""
	c.updatedAt = c.now().UTC()
	return nil
}

func (c *cell[T]) unmount() {
	c.mu.Lock()
	c.unmounted = true
	c.mu.Unlock()
}

func (c *cell[T]) isUnmounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unmounted
}

func (c *cell[T]) get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.loaded
}

func (c *cell[T]) meta() Meta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := Meta{Loading: c.inflight > 0, Error: c.errMsg, Loaded: c.loaded}
	if !c.updatedAt.IsZero() {
		ts := c.updatedAt
		m.UpdatedAt = &ts
	}
	return m
}

// Meta is the loading/error view of a remotely backed section.
type Meta struct {
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
	Loaded    bool       `json:"loaded"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Section names the sub-state a section should render.
type Section string

const (
	SectionLoading   Section = "loading"
	SectionError     Section = "error"
	SectionEmpty     Section = "empty"
	SectionPopulated Section = "populated"
)

// sectionOf decides the rendered sub-state. Stale data wins over an error banner
// for the body; the error still travels alongside in Meta.
func sectionOf(m Meta, empty bool) Section {
	switch {
	case m.Loaded && empty:
		return SectionEmpty
	case m.Loaded:
		return SectionPopulated
	case m.Error != "":
		return SectionError
	default:
		return SectionLoading
	}
}
