package typecast

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const testNamespace = "github.com/zoobzio/typecast"

// testCodec is a JSON codec that keeps numbers as json.Number.
type testCodec struct{}

func (c *testCodec) ContentType() string { return "application/json" }

func (c *testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *testCodec) Unmarshal(data []byte, v any) error {
	return decodeJSON(data, v)
}

// failingCodec fails every operation.
type failingCodec struct{}

func (c *failingCodec) ContentType() string { return "application/x-fail" }

func (c *failingCodec) Marshal(_ any) ([]byte, error) {
	return nil, errors.New("marshal broke")
}

func (c *failingCodec) Unmarshal(_ []byte, _ any) error {
	return errors.New("unmarshal broke")
}

type point struct {
	X int
	Y string
}

func (p point) Dump() Fields { return Auto(p) }

type line struct {
	From  point
	To    *point
	Tags  []string
	Extra map[string]any
}

func (l line) Dump() Fields { return Auto(l) }

// counter keeps only Total across a round trip.
type counter struct {
	Total int
	Label string
}

func (c counter) Dump() Fields {
	return Fields{{Name: "Total", Value: c.Total}}
}

// ptrHook implements Dump on the pointer receiver.
type ptrHook struct {
	Name string
}

func (p *ptrHook) Dump() Fields { return Auto(p) }

type renamed struct {
	Visible string `typecast:"visible"`
	Hidden  string `typecast:"-"`
	Plain   int
	private int
}

func (r renamed) Dump() Fields { return Auto(r) }

// retagged claims a different type in its own output.
type retagged struct {
	X int
}

func (r retagged) Dump() Fields {
	return Fields{
		{Name: TagKey, Value: testNamespace + ".point"},
		{Name: "X", Value: r.X},
	}
}

type stamped struct {
	At  time.Time
	Raw []byte
}

func (s stamped) Dump() Fields { return Auto(s) }

type widths struct {
	I8  int8
	U16 uint16
	F32 float32
	Arr [2]int
}

func (w widths) Dump() Fields { return Auto(w) }

type bounds struct {
	Max  int64
	Min  int64
	Near int64
	U    uint64
}

func (b bounds) Dump() Fields { return Auto(b) }

// event picks up MarshalText from the embedded time.Time.
type event struct {
	time.Time
	Name string
}

func (e event) Dump() Fields { return Auto(e) }

type base struct {
	ID int
}

type Meta struct {
	By string
}

type composed struct {
	base
	Meta
	Name string
}

func (c composed) Dump() Fields { return Auto(c) }

type shadowed struct {
	base
	ID string
}

func (s shadowed) Dump() Fields { return Auto(s) }

type left struct{ Tag string }

type right struct{ Tag string }

// ambiguous promotes Tag twice at the same depth.
type ambiguous struct {
	left
	right
	Name string
}

func (a ambiguous) Dump() Fields { return Auto(a) }

type unregistered struct {
	V int
}

func (u unregistered) Dump() Fields { return Auto(u) }

type opaque struct {
	fn func()
}

// upper is a non-struct text type.
type upper string

func (u upper) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(string(u))), nil
}

func testRegistry() *Registry {
	r := NewRegistry()
	mustRegisterIn[point](r)
	mustRegisterIn[line](r)
	mustRegisterIn[ptrHook](r)
	mustRegisterIn[renamed](r)
	mustRegisterIn[stamped](r)
	mustRegisterIn[widths](r)
	mustRegisterIn[bounds](r)
	mustRegisterIn[event](r)
	mustRegisterIn[composed](r)
	mustRegisterIn[shadowed](r)
	if err := RegisterIn[counter](r, WithBlank(func() counter {
		return counter{Label: "fresh"}
	})); err != nil {
		panic(err)
	}
	return r
}

func mustRegisterIn[T any](r *Registry) {
	if err := RegisterIn[T](r); err != nil {
		panic(err)
	}
}

func testProcessor() *Processor {
	return New(WithCodec(&testCodec{}), WithRegistry(testRegistry()))
}
