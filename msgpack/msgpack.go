// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/typecast"
)

// msgpackCodec implements typecast.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() typecast.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack using the smallest integer encodings.
// Envelope objects are written as maps in their own key order; plain maps are
// written with sorted keys.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := encodeTree(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v. Integers decoded into interface
// values keep their wire width (int8 through uint64).
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func encodeTree(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case *typecast.Object:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		for k, val := range t.All() {
			if err := encodePair(enc, k, val); err != nil {
				return err
			}
		}
		return nil

	case map[string]any:
		if err := enc.EncodeMapLen(len(t)); err != nil {
			return err
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodePair(enc, k, t[k]); err != nil {
				return err
			}
		}
		return nil

	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, val := range t {
			if err := encodeTree(enc, val); err != nil {
				return err
			}
		}
		return nil

	default:
		return enc.Encode(v)
	}
}

func encodePair(enc *msgpack.Encoder, key string, val any) error {
	if err := enc.EncodeString(key); err != nil {
		return err
	}
	return encodeTree(enc, val)
}
