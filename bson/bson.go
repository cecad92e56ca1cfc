// Package bson provides a BSON codec implementation.
//
// BSON requires a document at the root, so every payload is framed as
// {"v": <value>}. Arrays and primitives can therefore be encoded at the top
// level like any other codec.
package bson

import (
	"errors"
	"sort"

	"github.com/zoobzio/typecast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// rootKey holds the framed value.
const rootKey = "v"

var errMissingRoot = errors.New("bson: document has no root value")

// bsonCodec implements typecast.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() typecast.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON. Envelope objects become ordered documents.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(bson.D{{Key: rootKey, Value: toBSON(v)}})
}

// Unmarshal decodes BSON data into v. Decoding into *any yields a generic
// tree of map[string]any, []any, []byte and primitives.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	if target, ok := v.(*any); ok {
		var frame bson.D
		if err := bson.Unmarshal(data, &frame); err != nil {
			return err
		}
		for _, e := range frame {
			if e.Key == rootKey {
				*target = fromBSON(e.Value)
				return nil
			}
		}
		return errMissingRoot
	}

	var frame struct {
		V bson.RawValue `bson:"v"`
	}
	if err := bson.Unmarshal(data, &frame); err != nil {
		return err
	}
	if frame.V.Type == 0 {
		return errMissingRoot
	}
	return frame.V.Unmarshal(v)
}

func toBSON(v any) any {
	switch t := v.(type) {
	case *typecast.Object:
		d := make(bson.D, 0, t.Len())
		for k, val := range t.All() {
			d = append(d, bson.E{Key: k, Value: toBSON(val)})
		}
		return d
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := make(bson.D, 0, len(t))
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: toBSON(t[k])})
		}
		return d
	case []any:
		a := make(bson.A, len(t))
		for i, val := range t {
			a[i] = toBSON(val)
		}
		return a
	default:
		return v
	}
}

func fromBSON(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = fromBSON(val)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = fromBSON(val)
		}
		return out
	case primitive.Binary:
		return t.Data
	default:
		return v
	}
}
