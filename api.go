// Package typecast encodes arbitrary Go values into self-describing documents
// and decodes them back into the same concrete types.
//
// Every object in the document carries a type tag next to its fields:
//
//	{"__type__":"github.com/acme/shapes.Point","X":1,"Y":"north"}
//
// Decoding resolves the tag against a registry and rebuilds the instance
// directly from field values. No constructor runs.
//
// # Hooks
//
// A type opts in by implementing Dumpable. Auto dumps every exported field:
//
//	type Point struct {
//	    X int
//	    Y string
//	}
//
//	func (p Point) Dump() typecast.Fields { return typecast.Auto(p) }
//
// A custom hook may return any subset of fields:
//
//	func (s Summary) Dump() typecast.Fields {
//	    return typecast.Fields{{Name: "Count", Value: s.Count}}
//	}
//
// # Registration
//
// Types that should decode must be registered, usually from init:
//
//	func init() {
//	    typecast.MustRegister[Point]()
//	    typecast.MustRegister[Summary](typecast.WithBlank(func() Summary {
//	        return Summary{Note: "none"}
//	    }))
//	}
//
// # Global Entry Points
//
// Initialize switches Marshal and Unmarshal from plain encoding/json to the
// tagged path, once per process:
//
//	if err := typecast.Initialize(); err != nil {
//	    return err
//	}
//	data, _ := typecast.Marshal([]any{Point{X: 1}, Summary{Count: 2}})
//	v, _ := typecast.Unmarshal(data) // []any{*Point, *Summary}
//
// A second call returns ErrAlreadyInitialized. There is no uninstall.
//
// # Explicit Processors
//
// New builds the same machinery without touching global state:
//
//	proc := typecast.New(typecast.WithCodec(yaml.New()), typecast.WithRegistry(reg))
//	data, err := proc.Encode(ctx, v)
//	out, err := proc.Decode(ctx, data)
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json), plus a lenient JSONC variant
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - cbor - CBOR encoding (application/cbor)
//   - bson - BSON encoding (application/bson)
//
// # Errors
//
//   - ErrAlreadyInitialized: Initialize called twice
//   - ErrNotSerializable: a value has neither a native shape nor a Dump hook
//   - ErrUnknownType: a tag names no registered type
//   - ErrUnknownField, ErrAssign: a field could not be set on the decoded instance
package typecast
