package db

import (
	"slices"

	"go.uber.org/zap"
)

// Collection is the in-memory bookkeeping shared by every Repository backend.
// It holds the full record set, mirrors it to a Snapshotter after every
// mutation and keeps memory unchanged when the snapshot cannot be written.
// Collection is not safe for concurrent use.
type Collection[T Record] struct {
	kind   string
	store  Snapshotter[T]
	items  []T
	logger *zap.Logger
}

// NewCollection creates a collection and loads its contents from store.
// A load failure is logged and the collection starts empty.
func NewCollection[T Record](kind string, store Snapshotter[T], logger *zap.Logger) *Collection[T] {
	c := &Collection[T]{
		kind:   kind,
		store:  store,
		logger: logger.With(zap.String("record", kind), zap.String("location", store.Location())),
	}

	items, err := store.Load()
	if err != nil {
		c.logger.Error("Could not load records, starting empty", zap.Error(err))
		items = nil
	}
	c.items = items

	c.logger.Debug("Loaded records", zap.Int("count", len(c.items)))
	return c
}

// Add appends item and persists the collection.
// Returns false if a record with the same id already exists.
func (c *Collection[T]) Add(item T) bool {
	id := item.RecordID()
	if c.indexOf(id) >= 0 {
		c.logger.Warn("Record already exists, cannot add", zap.Int("id", id))
		return false
	}

	next := append(slices.Clone(c.items), CloneRecord(item))
	if !c.commit(next) {
		return false
	}

	c.logger.Debug("Record added", zap.Int("id", id), zap.Int("count", len(c.items)))
	return true
}

// Remove deletes the record with the given id and persists the collection.
// Returns false if no such record exists.
func (c *Collection[T]) Remove(id int) bool {
	if c.indexOf(id) < 0 {
		c.logger.Warn("Record not found for removal", zap.Int("id", id))
		return false
	}

	next := slices.DeleteFunc(slices.Clone(c.items), func(existing T) bool {
		return existing.RecordID() == id
	})
	if !c.commit(next) {
		return false
	}

	c.logger.Debug("Record removed", zap.Int("id", id), zap.Int("count", len(c.items)))
	return true
}

// Update replaces the record with the same id as item and persists the collection.
// Returns false if no such record exists.
func (c *Collection[T]) Update(item T) bool {
	id := item.RecordID()
	idx := c.indexOf(id)
	if idx < 0 {
		c.logger.Warn("Record not found for update", zap.Int("id", id))
		return false
	}

	next := slices.Clone(c.items)
	next[idx] = CloneRecord(item)
	if !c.commit(next) {
		return false
	}

	c.logger.Debug("Record updated", zap.Int("id", id))
	return true
}

// GetAll returns a copy of every record; later mutations are not reflected in it
func (c *Collection[T]) GetAll() []T {
	all := make([]T, len(c.items))
	for i, item := range c.items {
		all[i] = CloneRecord(item)
	}
	return all
}

// commit persists next and makes it the current contents.
// On failure the current contents are left untouched.
func (c *Collection[T]) commit(next []T) bool {
	if err := c.store.Save(next); err != nil {
		c.logger.Error("Could not save records, change dropped", zap.Error(err))
		return false
	}
	c.items = next
	return true
}

func (c *Collection[T]) indexOf(id int) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return item.RecordID() == id
	})
}

// CloneRecord deep-copies records that own reference data, such as an event's volunteer set
func CloneRecord[T Record](item T) T {
	if cloner, ok := any(item).(interface{ Clone() T }); ok {
		return cloner.Clone()
	}
	return item
}
