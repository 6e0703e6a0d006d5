package db

// Record is implemented by every type a Repository can hold
type Record interface {
	RecordID() int
}

// Repository defines a persistent collection of records keyed by identifier.
// None of the operations fail for "not found" or "duplicate": they log and
// report through the returned bool whether the collection changed.
type Repository[T Record] interface {
	// Add appends item unless a record with the same id already exists
	Add(item T) bool
	// Remove deletes the record with the given id if present
	Remove(id int) bool
	// Update replaces the record whose id matches item's id
	Update(item T) bool
	// GetAll returns a snapshot copy of the collection in insertion order
	GetAll() []T
}

// Snapshotter loads and stores the full contents of a collection.
// Each call performs one complete read or one complete write.
type Snapshotter[T Record] interface {
	Load() ([]T, error)
	Save(items []T) error
	// Location describes where the snapshot lives, for logging
	Location() string
}
