package store

import (
	"context"
	"fmt"
)

// Record is implemented by every storable type. Implementations are pointer
// types so SetRecordID mutates the stored value.
type Record interface {
	RecordID() int
	SetRecordID(id int)
}

// Collection is a typed view over one named collection of a Store.
type Collection[T Record] struct {
	store *Store
	name  string
}

// NewCollection binds a typed collection to s under the given name.
func NewCollection[T Record](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// AllLocked loads every record. The caller must hold the collection lock
// (see Store.Acquire); use All for standalone reads.
func (c *Collection[T]) AllLocked() ([]T, error) {
	var recs []T
	if err := c.store.readLocked(c.name, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReplaceLocked rewrites the full collection contents. The caller must hold
// the collection lock.
func (c *Collection[T]) ReplaceLocked(recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	return c.store.writeLocked(c.name, recs)
}

// All returns every record in insertion order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	release, err := c.store.Acquire(ctx, c.name)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.AllLocked()
}

// Get returns the record with the given id, or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	recs, err := c.All(ctx)
	if err != nil {
		return zero, err
	}
	for _, r := range recs {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return zero, fmt.Errorf("%w: %s id %d", ErrNotFound, c.name, id)
}

// Insert appends rec with a freshly assigned id. Ids are allocated as
// max(currently-present ids)+1, so an emptied collection restarts at 1.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	release, err := c.store.Acquire(ctx, c.name)
	if err != nil {
		return err
	}
	defer release()

	recs, err := c.AllLocked()
	if err != nil {
		return err
	}
	rec.SetRecordID(NextID(recs))
	return c.ReplaceLocked(append(recs, rec))
}

// Update applies mutate to the record with the given id and persists the
// collection. Merge policy (which fields overwrite, which are kept) is the
// mutator's concern. A nil mutate persists the record unchanged.
func (c *Collection[T]) Update(ctx context.Context, id int, mutate func(T)) (T, error) {
	var zero T
	release, err := c.store.Acquire(ctx, c.name)
	if err != nil {
		return zero, err
	}
	defer release()

	recs, err := c.AllLocked()
	if err != nil {
		return zero, err
	}
	for _, r := range recs {
		if r.RecordID() != id {
			continue
		}
		if mutate != nil {
			mutate(r)
		}
		if err := c.ReplaceLocked(recs); err != nil {
			return zero, err
		}
		return r, nil
	}
	return zero, fmt.Errorf("%w: %s id %d", ErrNotFound, c.name, id)
}

// Delete removes the record with the given id, or returns ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id int) error {
	release, err := c.store.Acquire(ctx, c.name)
	if err != nil {
		return err
	}
	defer release()

	recs, err := c.AllLocked()
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.RecordID() == id {
			return c.ReplaceLocked(append(recs[:i], recs[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s id %d", ErrNotFound, c.name, id)
}

// NextID allocates the next record id over the currently-present records.
func NextID[T Record](recs []T) int {
	maxID := 0
	for _, r := range recs {
		if r.RecordID() > maxID {
			maxID = r.RecordID()
		}
	}
	return maxID + 1
}
