// Package arena provides dense append-only stores addressed by typed
// surrogate keys.
//
// Keys are 1-based; the zero value of every key type is its "no key"
// sentinel. Entries are never removed, so a key stays valid for the whole
// lifetime of the registry that produced it. Using a key with a different
// registry is prevented by giving every store its own key type.
package arena

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Key is the constraint satisfied by every surrogate key type.
type Key interface {
	~uint32
}

// Registry owns values of type V addressed by keys of type K.
type Registry[K Key, V any] struct {
	data []V
}

// New creates an empty registry with an optional capacity hint.
func New[K Key, V any](capHint uint) *Registry[K, V] {
	return &Registry[K, V]{data: make([]V, 0, capHint)}
}

// next returns the key the following insert will receive.
func (r *Registry[K, V]) next() K {
	n, err := safecast.Conv[uint32](len(r.data) + 1)
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return K(n)
}

// Insert appends value and returns its fresh key.
func (r *Registry[K, V]) Insert(value V) K {
	id := r.next()
	r.data = append(r.data, value)
	return id
}

// InsertWith reserves a key and builds the value with it, so a value
// can carry its own id.
func (r *Registry[K, V]) InsertWith(build func(K) V) K {
	id := r.next()
	value := build(id)
	// build must not insert into the same registry
	if r.next() != id {
		panic("arena: registry mutated during InsertWith")
	}
	r.data = append(r.data, value)
	return id
}

// Get returns a pointer to the value, or nil for the sentinel and unknown keys.
func (r *Registry[K, V]) Get(id K) *V {
	if id == 0 || int(id) > len(r.data) {
		return nil
	}
	return &r.data[id-1]
}

// MustGet is Get for keys that must exist; anything else is a bug in the caller.
func (r *Registry[K, V]) MustGet(id K) *V {
	v := r.Get(id)
	if v == nil {
		panic(fmt.Sprintf("arena: invalid key %d (len %d)", id, len(r.data)))
	}
	return v
}

// Len reports the number of stored values.
func (r *Registry[K, V]) Len() int {
	return len(r.data)
}

// All yields every key/value pair in insertion order.
func (r *Registry[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range r.data {
			if !yield(K(uint32(i+1)), &r.data[i]) { //nolint:gosec // len checked on insert
				return
			}
		}
	}
}

// Keys returns all keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, 0, len(r.data))
	for id := range r.All() {
		keys = append(keys, id)
	}
	return keys
}
