// Package cbor provides a CBOR codec implementation.
package cbor

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/typecast"
)

// encMode is configured with Core Deterministic Encoding (RFC 8949 §4.2):
// map keys are sorted, so envelope key order is canonical rather than
// insertion order.
var encMode cbor.EncMode

// decMode decodes maps under interface targets as map[string]any, the shape
// the envelope decoder walks.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// cborCodec implements typecast.Codec for CBOR.
type cborCodec struct{}

// New returns a CBOR codec.
func New() typecast.Codec {
	return &cborCodec{}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Marshal encodes v as CBOR.
func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return encMode.Marshal(plain(v))
}

// Unmarshal decodes CBOR data into v.
func (c *cborCodec) Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// plain replaces envelope objects with ordinary maps.
func plain(v any) any {
	switch t := v.(type) {
	case *typecast.Object:
		m := make(map[string]any, t.Len())
		for k, val := range t.All() {
			m[k] = plain(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = plain(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	default:
		return v
	}
}
