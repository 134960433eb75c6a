package world

import "sort"

// KeySet stores overlay membership for block keys.
type KeySet interface {
	Has(key BlockKey) bool
	// Add inserts the key and reports whether it was absent.
	Add(key BlockKey) bool
	// Remove deletes the key and reports whether it was present.
	Remove(key BlockKey) bool
	Len() int
	// ForEach visits keys in chunk-major, then row-major order until fn returns false.
	ForEach(fn func(key BlockKey) bool)
}

// NewKeySet returns an in-memory hash set.
func NewKeySet() KeySet {
	return &memoryKeySet{keys: make(map[BlockKey]struct{})}
}

type memoryKeySet struct {
	keys map[BlockKey]struct{}
}

func (s *memoryKeySet) Has(key BlockKey) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *memoryKeySet) Add(key BlockKey) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *memoryKeySet) Remove(key BlockKey) bool {
	if _, ok := s.keys[key]; !ok {
		return false
	}
	delete(s.keys, key)
	return true
}

func (s *memoryKeySet) Len() int {
	return len(s.keys)
}

func (s *memoryKeySet) ForEach(fn func(key BlockKey) bool) {
	keys := make([]BlockKey, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sortKeys(keys)
	for _, key := range keys {
		if !fn(key) {
			return
		}
	}
}

func sortKeys(keys []BlockKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ChunkX != b.ChunkX {
			return a.ChunkX < b.ChunkX
		}
		if a.ChunkY != b.ChunkY {
			return a.ChunkY < b.ChunkY
		}
		if a.LocalY != b.LocalY {
			return a.LocalY < b.LocalY
		}
		return a.LocalX < b.LocalX
	})
}
