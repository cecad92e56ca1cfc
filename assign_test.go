package typecast

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func convertTo[T any](src any) (T, error) {
	var out T
	err := convert(src, reflect.ValueOf(&out).Elem())
	return out, err
}

func TestConvert_Numbers(t *testing.T) {
	tests := []struct {
		name    string
		run     func() (any, error)
		want    any
		wantErr string
	}{
		{"float64 to int", func() (any, error) { return convertTo[int](float64(3)) }, 3, ""},
		{"int8 to int64", func() (any, error) { return convertTo[int64](int8(-7)) }, int64(-7), ""},
		{"uint64 to int", func() (any, error) { return convertTo[int](uint64(9)) }, 9, ""},
		{"int64 to uint16", func() (any, error) { return convertTo[uint16](int64(65535)) }, uint16(65535), ""},
		{"int to float32", func() (any, error) { return convertTo[float32](int64(2)) }, float32(2), ""},
		{"float32 to float64", func() (any, error) { return convertTo[float64](float32(1.5)) }, 1.5, ""},
		{"int8 overflow", func() (any, error) { return convertTo[int8](int64(300)) }, nil, "overflows int8"},
		{"negative to uint", func() (any, error) { return convertTo[uint](int64(-1)) }, nil, "overflows uint"},
		{"uint64 past int64", func() (any, error) { return convertTo[int64](uint64(math.MaxUint64)) }, nil, "overflows int64"},
		{"fraction to int", func() (any, error) { return convertTo[int](2.5) }, nil, "not representable"},
		{"fraction to uint", func() (any, error) { return convertTo[uint8](0.5) }, nil, "not representable"},
		{"float32 overflow", func() (any, error) { return convertTo[float32](math.MaxFloat64) }, nil, "overflows float32"},
		{"string to int", func() (any, error) { return convertTo[int]("1") }, nil, "cannot assign"},
		{"number max int64", func() (any, error) { return convertTo[int64](json.Number("9223372036854775807")) }, int64(math.MaxInt64), ""},
		{"number min int64", func() (any, error) { return convertTo[int64](json.Number("-9223372036854775808")) }, int64(math.MinInt64), ""},
		{"number past 2^53", func() (any, error) { return convertTo[int64](json.Number("9007199254740993")) }, int64(1<<53 + 1), ""},
		{"number max uint64", func() (any, error) { return convertTo[uint64](json.Number("18446744073709551615")) }, uint64(math.MaxUint64), ""},
		{"number fraction", func() (any, error) { return convertTo[float64](json.Number("1.5")) }, 1.5, ""},
		{"number to any", func() (any, error) { return convertTo[any](json.Number("42")) }, int64(42), ""},
		{"number to number", func() (any, error) { return convertTo[json.Number](json.Number("1e3")) }, json.Number("1e3"), ""},
		{"number out of range", func() (any, error) { return convertTo[float64](json.Number("1e400")) }, nil, "number 1e400"},
		{"number fraction to int", func() (any, error) { return convertTo[int](json.Number("2.5")) }, nil, "not representable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("convert() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("convert() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("convert() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConvert_Nil(t *testing.T) {
	p := &point{X: 1}
	if err := convert(nil, reflect.ValueOf(&p).Elem()); err != nil {
		t.Fatalf("convert(nil) error: %v", err)
	}
	if p != nil {
		t.Errorf("convert(nil) left %v", p)
	}
}

func TestConvert_PointerToValue(t *testing.T) {
	got, err := convertTo[point](&point{X: 2, Y: "b"})
	if err != nil {
		t.Fatalf("convert() error: %v", err)
	}
	if got != (point{X: 2, Y: "b"}) {
		t.Errorf("convert() = %+v", got)
	}
}

func TestConvert_ValueToPointer(t *testing.T) {
	got, err := convertTo[*int](float64(5))
	if err != nil {
		t.Fatalf("convert() error: %v", err)
	}
	if got == nil || *got != 5 {
		t.Errorf("convert() = %v", got)
	}
}

func TestConvert_Collections(t *testing.T) {
	ints, err := convertTo[[]int]([]any{float64(1), int64(2), uint8(3)})
	if err != nil {
		t.Fatalf("convert([]int) error: %v", err)
	}
	if !reflect.DeepEqual(ints, []int{1, 2, 3}) {
		t.Errorf("convert([]int) = %v", ints)
	}

	points, err := convertTo[[]*point]([]any{&point{X: 1}, nil})
	if err != nil {
		t.Fatalf("convert([]*point) error: %v", err)
	}
	if len(points) != 2 || points[0].X != 1 || points[1] != nil {
		t.Errorf("convert([]*point) = %v", points)
	}

	arr, err := convertTo[[2]string]([]any{"a", "b"})
	if err != nil {
		t.Fatalf("convert([2]string) error: %v", err)
	}
	if arr != [2]string{"a", "b"} {
		t.Errorf("convert([2]string) = %v", arr)
	}

	if _, err := convertTo[[2]string]([]any{"a"}); err == nil {
		t.Error("convert([2]string) should reject a short list")
	}

	m, err := convertTo[map[string]int](map[string]any{"a": float64(1)})
	if err != nil {
		t.Fatalf("convert(map) error: %v", err)
	}
	if m["a"] != 1 {
		t.Errorf("convert(map) = %v", m)
	}

	if _, err := convertTo[[]int]([]any{"x"}); err == nil || !strings.Contains(err.Error(), "[0]") {
		t.Errorf("convert([]int) error = %v, want index in message", err)
	}
}

func TestConvert_Bytes(t *testing.T) {
	got, err := convertTo[[]byte]("AP8Q")
	if err != nil {
		t.Fatalf("convert() error: %v", err)
	}
	if !reflect.DeepEqual(got, []byte{0x00, 0xff, 0x10}) {
		t.Errorf("convert() = %v", got)
	}

	if _, err := convertTo[[]byte]("not base64!"); err == nil {
		t.Error("convert() should reject invalid base64")
	}
}

func TestConvert_TextUnmarshaler(t *testing.T) {
	got, err := convertTo[time.Time]("2024-03-01T12:30:00Z")
	if err != nil {
		t.Fatalf("convert() error: %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("convert() = %v", got)
	}
}

func TestConvert_InterfaceMismatch(t *testing.T) {
	if _, err := convertTo[Dumpable]("text"); err == nil {
		t.Error("convert() should reject a value that does not implement the interface")
	}

	got, err := convertTo[Dumpable](&point{X: 1})
	if err != nil {
		t.Fatalf("convert() error: %v", err)
	}
	if got.(*point).X != 1 {
		t.Errorf("convert() = %v", got)
	}
}
