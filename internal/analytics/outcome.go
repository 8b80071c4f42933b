package analytics

import "encoding/json"

// Outcome holds a statistic that may be unavailable because its window had too
// few samples. The zero value is Insufficient.
type Outcome[T any] struct {
	value T
	ok    bool
}

func Available[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

func Insufficient[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Get returns the value and whether enough data existed to compute it.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Outcome[T]) Sufficient() bool {
	return o.ok
}

// MarshalJSON encodes the value, or null when insufficient.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
