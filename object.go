package typecast

import (
	"bytes"
	"encoding/json"
	"iter"
)

// Object is an insertion-ordered mapping used for envelopes.
//
// Setting an existing key replaces its value in place.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object with room for size entries.
func NewObject(size int) *Object {
	return &Object{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

// Set stores v under key.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// All iterates entries in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
