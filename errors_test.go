package typecast

import (
	"errors"
	"testing"
)

func TestTypeError_Is(t *testing.T) {
	err := newTypeError(ErrUnknownType, "example.com/shapes.Point", "namespace example.com/shapes not registered")

	if !errors.Is(err, ErrUnknownType) {
		t.Error("TypeError should unwrap to ErrUnknownType")
	}

	if errors.Is(err, ErrNotSerializable) {
		t.Error("TypeError should not match ErrNotSerializable")
	}
}

func TestTypeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with reason",
			err:  newTypeError(ErrInvalidType, "[]int", "not a struct"),
			want: "invalid type: []int (not a struct)",
		},
		{
			name: "type only",
			err:  &TypeError{Err: ErrNotSerializable, Type: "chan int"},
			want: "not serializable: chan int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldError_Is(t *testing.T) {
	err := newFieldError(ErrAssign, "example.com/shapes.Point", "X", errors.New("300 overflows int8"))

	if !errors.Is(err, ErrAssign) {
		t.Error("FieldError should unwrap to ErrAssign")
	}

	if errors.Is(err, ErrUnknownField) {
		t.Error("FieldError should not match ErrUnknownField")
	}
}

func TestFieldError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  newFieldError(ErrAssign, "example.com/shapes.Point", "X", errors.New("300 overflows int8")),
			want: "assign failed example.com/shapes.Point.X: 300 overflows int8",
		},
		{
			name: "no cause",
			err:  newFieldError(ErrUnknownField, "example.com/shapes.Point", "Z", nil),
			want: "unknown field example.com/shapes.Point.Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecError_Is(t *testing.T) {
	err := newCodecError(ErrUnmarshal, errors.New("invalid json"))

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}

	if errors.Is(err, ErrMarshal) {
		t.Error("CodecError should not match ErrMarshal")
	}
}

func TestCodecError_Message(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := newCodecError(ErrUnmarshal, cause)

	want := "unmarshal failed: unexpected end of JSON input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodecError_NoCause(t *testing.T) {
	err := &CodecError{Err: ErrMarshal}

	want := "marshal failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// --- errors.As extraction tests ---

func TestErrorsAs_TypeError(t *testing.T) {
	_, err := testProcessor().Decode(t.Context(), []byte(`{"__type__":"example.com/nowhere.Thing"}`))

	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Decode() error should be *TypeError, got %T", err)
	}
	if typeErr.Type != "example.com/nowhere.Thing" {
		t.Errorf("TypeError.Type = %q", typeErr.Type)
	}
}

func TestErrorsAs_FieldError(t *testing.T) {
	_, err := testProcessor().Decode(t.Context(), []byte(`{"__type__":"github.com/zoobzio/typecast.point","Z":1}`))

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("Decode() error should be *FieldError, got %T", err)
	}
	if fieldErr.Field != "Z" {
		t.Errorf("FieldError.Field = %q, want %q", fieldErr.Field, "Z")
	}
}

func TestErrorsAs_CodecError(t *testing.T) {
	_, err := testProcessor().Decode(t.Context(), []byte(`{not json`))

	var codecErr *CodecError
	if !errors.As(err, &codecErr) {
		t.Fatalf("Decode() error should be *CodecError, got %T", err)
	}
	if codecErr.Cause == nil {
		t.Error("CodecError.Cause should carry the codec error")
	}
}
