// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
	"github.com/zoobzio/typecast"
)

// jsonCodec implements typecast.Codec for JSON.
type jsonCodec struct {
	lenient bool
}

// New returns a JSON codec.
func New() typecast.Codec {
	return &jsonCodec{}
}

// NewLenient returns a JSON codec that also accepts comments and trailing
// commas on input. Output is plain JSON.
func NewLenient() typecast.Codec {
	return &jsonCodec{lenient: true}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v. Numbers decoded into interfaces are
// json.Number, so large integers keep every digit.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if c.lenient {
		data = jsonc.ToJSON(data)
	}

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
