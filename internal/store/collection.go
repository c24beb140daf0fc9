package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidPatch is returned when a patch cannot be applied to the record type.
var ErrInvalidPatch = errors.New("invalid patch")

// Entity is a record with a stable identifier.
type Entity interface {
	RecordID() string
}

// Patch is a partial record keyed by JSON field name.
type Patch map[string]any

type stamper interface {
	SetUpdatedAt(time.Time)
}

// Collection is a typed view over one collection file. Every operation runs
// a full load-mutate-save cycle under the collection mutex.
type Collection[T Entity] struct {
	name      string
	file      *File
	protected map[string]struct{}
	nowFn     func() time.Time

	mu sync.Mutex
}

// NewCollection binds file to records of type T. Keys named in protected are
// never overwritten by Update; id and created_at are always protected.
func NewCollection[T Entity](name string, file *File, protected ...string) *Collection[T] {
	keys := map[string]struct{}{"id": {}, "created_at": {}}
	for _, k := range protected {
		keys[k] = struct{}{}
	}
	return &Collection[T]{
		name:      name,
		file:      file,
		protected: keys,
		nowFn:     time.Now,
	}
}

// WithClock overrides the update timestamp source, mainly for tests.
func (c *Collection[T]) WithClock(now func() time.Time) *Collection[T] {
	if now != nil {
		c.nowFn = now
	}
	return c
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Path returns the backing file path.
func (c *Collection[T]) Path() string { return c.file.Path() }

// Ensure creates the backing file when it does not exist yet.
func (c *Collection[T]) Ensure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.load()
	return err
}

// All returns every record in file order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	return c.List(ctx, Filter{})
}

// List returns the records matching filter in file order.
func (c *Collection[T]) List(ctx context.Context, filter Filter) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	records, err := c.load()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if filter.Empty() {
		return records, nil
	}

	filter, err = filter.normalize()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	matched := make([]T, 0, len(records))
	for _, rec := range records {
		fields, err := toFields(rec)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c.name, err)
		}
		if filter.match(fields) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Get returns the record with id or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.Lock()
	records, err := c.load()
	c.mu.Unlock()
	if err != nil {
		return zero, err
	}
	if idx := indexOf(records, id); idx >= 0 {
		return records[idx], nil
	}
	return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
}

// Insert appends rec and persists the collection.
func (c *Collection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return zero, err
	}
	if indexOf(records, rec.RecordID()) >= 0 {
		return zero, fmt.Errorf("%s %s: %w", c.name, rec.RecordID(), ErrDuplicateID)
	}
	records = append(records, rec)
	if err := c.file.Save(ctx, records); err != nil {
		return zero, fmt.Errorf("insert %s %s: %w", c.name, rec.RecordID(), err)
	}
	return rec, nil
}

// Update overlays patch onto the stored record. Unspecified fields persist
// and protected keys keep their stored value.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	return c.Mutate(ctx, id, func(rec *T) error {
		merged, err := c.merge(*rec, patch)
		if err != nil {
			return err
		}
		*rec = merged
		return nil
	})
}

// Mutate applies fn to a copy of the stored record and persists the result.
// An error from fn aborts the write.
func (c *Collection[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return zero, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}

	rec := records[idx]
	if err := fn(&rec); err != nil {
		return zero, err
	}
	if s, ok := any(&rec).(stamper); ok {
		s.SetUpdatedAt(c.nowFn().UTC())
	}
	records[idx] = rec
	if err := c.file.Save(ctx, records); err != nil {
		return zero, fmt.Errorf("update %s %s: %w", c.name, id, err)
	}
	return rec, nil
}

// ReplaceAll overwrites the whole collection with records.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.file.Save(ctx, records); err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection[T]) load() ([]T, error) {
	var records []T
	if err := c.file.Load(&records); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) merge(rec T, patch Patch) (T, error) {
	var zero T
	fields, err := toFields(rec)
	if err != nil {
		return zero, err
	}
	for key, value := range patch {
		if _, ok := c.protected[key]; ok {
			continue
		}
		fields[key] = value
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var merged T
	if err := json.Unmarshal(raw, &merged); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return merged, nil
}

func indexOf[T Entity](records []T, id string) int {
	for i, rec := range records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}
