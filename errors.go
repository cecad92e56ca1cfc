package typecast

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrAlreadyInitialized indicates Initialize was called more than once.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotSerializable indicates a value has no native representation and no Dump hook.
	ErrNotSerializable = errors.New("not serializable")

	// ErrUnknownType indicates a type tag could not be resolved to a registered type.
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownField indicates an envelope carried a field the target type does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrAssign indicates a decoded value could not be assigned to a field.
	ErrAssign = errors.New("assign failed")

	// ErrInvalidType indicates a type cannot be registered (unnamed or not a struct).
	ErrInvalidType = errors.New("invalid type")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// TypeError reports a failure tied to a whole type: a value that cannot be
// encoded, a tag that cannot be resolved, or a type that cannot be registered.
type TypeError struct {
	Err    error  // Underlying sentinel error (ErrNotSerializable, ErrUnknownType, ErrInvalidType)
	Type   string // Go type name or type tag
	Reason string // Optional detail
}

func (e *TypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Type, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Type)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// FieldError reports a failure assigning a single decoded field.
type FieldError struct {
	Err   error  // Underlying sentinel error (ErrUnknownField, ErrAssign)
	Type  string // Type tag of the instance being populated
	Field string // Envelope field name
	Cause error  // Original error, if any
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s.%s: %v", e.Err.Error(), e.Type, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s %s.%s", e.Err.Error(), e.Type, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newTypeError(sentinel error, typ, reason string) error {
	return &TypeError{
		Err:    sentinel,
		Type:   typ,
		Reason: reason,
	}
}

func newFieldError(sentinel error, typ, field string, cause error) error {
	return &FieldError{
		Err:   sentinel,
		Type:  typ,
		Field: field,
		Cause: cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
