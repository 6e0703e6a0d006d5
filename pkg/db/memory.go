package db

// memoryStore keeps snapshots in memory only; nothing survives the process
type memoryStore[T Record] struct {
	items []T
}

func newMemoryStore[T Record](seed []T) *memoryStore[T] {
	s := &memoryStore[T]{}
	s.items = cloneAll(seed)
	return s
}

func (s *memoryStore[T]) Location() string {
	return "memory"
}

func (s *memoryStore[T]) Load() ([]T, error) {
	return cloneAll(s.items), nil
}

func (s *memoryStore[T]) Save(items []T) error {
	s.items = cloneAll(items)
	return nil
}

func cloneAll[T Record](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = CloneRecord(item)
	}
	return out
}
