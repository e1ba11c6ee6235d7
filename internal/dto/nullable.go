package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes a field that was omitted from one explicitly sent,
// including an explicit null. Set is true whenever the key was present.
type Nullable[T any] struct {
	Value *T
	Set   bool
}

// NullableOf returns a present, non-null value.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Value: &v, Set: true}
}

// Null returns a present, explicitly null value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
