package typecast

import (
	"encoding"
	"fmt"
	"reflect"
)

var (
	dumpableType      = reflect.TypeFor[Dumpable]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// encoder turns a value into an envelope tree. Values with a native shape pass
// through; everything else must implement Dumpable.
type encoder struct {
	envelopes int
}

func (e *encoder) encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return e.encodeValue(reflect.ValueOf(v))
}

func (e *encoder) encodeValue(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, nil

	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.encodeValue(rv.Elem())

	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return e.encodeValue(rv.Elem())

	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil

	case reflect.Float32:
		return float32(rv.Float()), nil

	case reflect.Float64:
		return rv.Float(), nil

	case reflect.String:
		return rv.String(), nil

	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), nil
		}
		return e.encodeSeq(rv)

	case reflect.Array:
		return e.encodeSeq(rv)

	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, newTypeError(ErrNotSerializable, rv.Type().String(), "map key is not a string")
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			val, err := e.encodeValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = val
		}
		return out, nil
	}

	// A hook wins over a text form promoted from an embedded field.
	if hook, ok := asDumpable(rv); ok {
		return e.envelope(rv.Type(), hook)
	}

	if rv.Type().Implements(textMarshalerType) {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, newTypeError(ErrNotSerializable, rv.Type().String(), err.Error())
		}
		return string(text), nil
	}

	return nil, newTypeError(ErrNotSerializable, rv.Type().String(), "")
}

func (e *encoder) encodeSeq(rv reflect.Value) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		val, err := e.encodeValue(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// envelope wraps the hook output with the tag of rt.
func (e *encoder) envelope(rt reflect.Type, hook Dumpable) (any, error) {
	tag, ok := TagOf(rt)
	if !ok {
		return nil, newTypeError(ErrNotSerializable, rt.String(), "unnamed type")
	}

	fields := hook.Dump()
	obj := NewObject(len(fields) + 1)
	obj.Set(TagKey, tag)
	for _, f := range fields {
		val, err := e.encode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rt.Name(), f.Name, err)
		}
		obj.Set(f.Name, val)
	}

	e.envelopes++
	return obj, nil
}

// asDumpable finds a Dump hook on rv or, for pointer receivers, on a copy's address.
func asDumpable(rv reflect.Value) (Dumpable, bool) {
	if rv.Type().Implements(dumpableType) {
		return rv.Interface().(Dumpable), true
	}
	if reflect.PointerTo(rv.Type()).Implements(dumpableType) {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface().(Dumpable), true
	}
	return nil, false
}
