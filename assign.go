package typecast

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	numberType          = reflect.TypeFor[json.Number]()
)

// number converts a JSON number to the first of int64, uint64 and float64
// that holds it exactly.
func number(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", n, err)
	}
	return f, nil
}

// convert stores a rewritten tree value into dst, converting between the
// generic shapes codecs produce and dst's declared type. dst must be settable.
func convert(src any, dst reflect.Value) error {
	if src == nil {
		dst.SetZero()
		return nil
	}

	if n, ok := src.(json.Number); ok && dst.Type() != numberType {
		v, err := number(n)
		if err != nil {
			return err
		}
		src = v
	}

	sv := reflect.ValueOf(src)
	dt := dst.Type()

	if sv.Type().AssignableTo(dt) {
		dst.Set(sv)
		return nil
	}

	// A decoded envelope is a *T; a T field takes the pointee.
	if sv.Kind() == reflect.Ptr && !sv.IsNil() && sv.Elem().Type().AssignableTo(dt) {
		dst.Set(sv.Elem())
		return nil
	}

	switch dt.Kind() {
	case reflect.Ptr:
		elem := reflect.New(dt.Elem())
		if err := convert(src, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil

	case reflect.Interface:
		return fmt.Errorf("%T does not implement %s", src, dt)

	case reflect.Bool:
		if sv.Kind() == reflect.Bool {
			dst.SetBool(sv.Bool())
			return nil
		}

	case reflect.String:
		if sv.Kind() == reflect.String {
			dst.SetString(sv.String())
			return nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(sv, dst)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUint(sv, dst)

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(sv)
		if !ok {
			break
		}
		if dst.OverflowFloat(f) {
			return fmt.Errorf("%v overflows %s", f, dt)
		}
		dst.SetFloat(f)
		return nil

	case reflect.Slice:
		if dt.Elem().Kind() == reflect.Uint8 && sv.Kind() == reflect.String {
			raw, err := base64.StdEncoding.DecodeString(sv.String())
			if err != nil {
				return fmt.Errorf("decode bytes: %w", err)
			}
			dst.SetBytes(raw)
			return nil
		}
		if sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array {
			out := reflect.MakeSlice(dt, sv.Len(), sv.Len())
			for i := 0; i < sv.Len(); i++ {
				if err := convert(sv.Index(i).Interface(), out.Index(i)); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			dst.Set(out)
			return nil
		}

	case reflect.Array:
		if sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array {
			if sv.Len() != dt.Len() {
				return fmt.Errorf("array length %d, got %d elements", dt.Len(), sv.Len())
			}
			for i := 0; i < sv.Len(); i++ {
				if err := convert(sv.Index(i).Interface(), dst.Index(i)); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			return nil
		}

	case reflect.Map:
		if sv.Kind() == reflect.Map && dt.Key().Kind() == reflect.String && sv.Type().Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(dt, sv.Len())
			iter := sv.MapRange()
			for iter.Next() {
				k := iter.Key().String()
				elem := reflect.New(dt.Elem()).Elem()
				if err := convert(iter.Value().Interface(), elem); err != nil {
					return fmt.Errorf("[%q]: %w", k, err)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(dt.Key()), elem)
			}
			dst.Set(out)
			return nil
		}
	}

	// Non-string kinds with a text form, e.g. time.Time.
	if sv.Kind() == reflect.String && dst.CanAddr() && reflect.PointerTo(dt).Implements(textUnmarshalerType) {
		u := dst.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(sv.String()))
	}

	return fmt.Errorf("cannot assign %T to %s", src, dt)
}

func setInt(sv, dst reflect.Value) error {
	var n int64
	switch sv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = sv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := sv.Uint()
		if u > math.MaxInt64 {
			return fmt.Errorf("%d overflows %s", u, dst.Type())
		}
		n = int64(u)
	case reflect.Float32, reflect.Float64:
		f := sv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return fmt.Errorf("%v is not representable as %s", f, dst.Type())
		}
		n = int64(f)
	default:
		return fmt.Errorf("cannot assign %s to %s", sv.Type(), dst.Type())
	}
	if dst.OverflowInt(n) {
		return fmt.Errorf("%d overflows %s", n, dst.Type())
	}
	dst.SetInt(n)
	return nil
}

func setUint(sv, dst reflect.Value) error {
	var n uint64
	switch sv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := sv.Int()
		if i < 0 {
			return fmt.Errorf("%d overflows %s", i, dst.Type())
		}
		n = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n = sv.Uint()
	case reflect.Float32, reflect.Float64:
		f := sv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return fmt.Errorf("%v is not representable as %s", f, dst.Type())
		}
		n = uint64(f)
	default:
		return fmt.Errorf("cannot assign %s to %s", sv.Type(), dst.Type())
	}
	if dst.OverflowUint(n) {
		return fmt.Errorf("%d overflows %s", n, dst.Type())
	}
	dst.SetUint(n)
	return nil
}

func toFloat(sv reflect.Value) (float64, bool) {
	switch sv.Kind() {
	case reflect.Float32, reflect.Float64:
		return sv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(sv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(sv.Uint()), true
	default:
		return 0, false
	}
}
