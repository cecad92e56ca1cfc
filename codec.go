package typecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec provides content-type aware marshaling.
//
// Codecs used with a Processor must marshal envelope trees (nil, primitives,
// []byte, []any, map[string]any and *Object) and must unmarshal into *any as a
// generic tree whose objects are map[string]any.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// jsonCodec is the built-in JSON codec used when no codec is configured.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return decodeJSON(data, v)
}

// decodeJSON is json.Unmarshal with numbers kept as json.Number, so integers
// past 2^53 reach typed fields exactly.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("json: unexpected %v after top-level value", tok)
}
