package bootdep

import "reflect"

// SingletonStore maps each component type to its only instance. Entries are added once and never
// replaced or removed. It is not safe for concurrent use; a store belongs to a single bootstrap.
type SingletonStore struct {
	instances map[reflect.Type]any
	order     []reflect.Type
}

// NewSingletonStore creates an empty store.
func NewSingletonStore() *SingletonStore {
	return &SingletonStore{instances: map[reflect.Type]any{}}
}

// Get returns the instance stored for t.
func (s *SingletonStore) Get(t reflect.Type) (any, bool) {
	v, ok := s.instances[t]
	return v, ok
}

// PutIfAbsent stores v for t unless an instance is already present. It reports whether v was
// stored.
func (s *SingletonStore) PutIfAbsent(t reflect.Type, v any) bool {
	if _, ok := s.instances[t]; ok {
		return false
	}
	s.instances[t] = v
	s.order = append(s.order, t)
	return true
}

// Len returns the number of stored instances.
func (s *SingletonStore) Len() int {
	return len(s.instances)
}

// Types returns the stored types in the order their construction completed.
func (s *SingletonStore) Types() []reflect.Type {
	return append([]reflect.Type(nil), s.order...)
}

// Each calls fn for every stored instance in completion order until fn returns false.
func (s *SingletonStore) Each(fn func(t reflect.Type, instance any) bool) {
	for _, t := range s.order {
		if !fn(t, s.instances[t]) {
			return
		}
	}
}
