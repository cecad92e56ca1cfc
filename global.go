package typecast

import (
	"context"
	"encoding/json"
	"reflect"
	"sync/atomic"
)

// State reports whether the global entry points have been switched over.
type State int32

const (
	// Uninitialized means Marshal and Unmarshal behave like plain encoding/json.
	Uninitialized State = iota
	// Initialized means Marshal and Unmarshal go through the installed Processor.
	Initialized
)

func (s State) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "uninitialized"
}

var (
	state  atomic.Int32
	active atomic.Pointer[Processor]
)

// Initialize installs a Processor built from opts as the target of Marshal
// and Unmarshal for the rest of the process. It succeeds once; every later
// call returns ErrAlreadyInitialized and leaves the first installation active.
func Initialize(opts ...Option) error {
	if !state.CompareAndSwap(int32(Uninitialized), int32(Initialized)) {
		return ErrAlreadyInitialized
	}
	p := New(opts...)
	active.Store(p)
	emitInitialized(context.Background(), p.ContentType())
	return nil
}

// CurrentState returns the global initialization state.
func CurrentState() State {
	return State(state.Load())
}

// Marshal encodes v with the installed Processor, or with encoding/json
// before Initialize.
func Marshal(v any) ([]byte, error) {
	if p := active.Load(); p != nil {
		return p.Encode(context.Background(), v)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data with the installed Processor, or into a generic
// encoding/json tree before Initialize.
func Unmarshal(data []byte) (any, error) {
	if p := active.Load(); p != nil {
		return p.Decode(context.Background(), data)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnmarshalAs decodes data and converts the result to T.
//
//	p, err := typecast.UnmarshalAs[shapes.Point](data)
//	all, err := typecast.UnmarshalAs[[]*shapes.Point](data)
func UnmarshalAs[T any](data []byte) (T, error) {
	var out T
	v, err := Unmarshal(data)
	if err != nil {
		return out, err
	}
	if err := store(v, reflect.ValueOf(&out).Elem()); err != nil {
		return out, err
	}
	return out, nil
}
