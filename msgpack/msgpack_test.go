package msgpack

import (
	"testing"

	"github.com/zoobzio/typecast"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `msgpack:"name"`
		Value int    `msgpack:"value"`
	}

	original := TestStruct{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Name != original.Name || restored.Value != original.Value {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalBinary(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// MessagePack is binary, should not be valid UTF-8 JSON
	if data[0] == '{' {
		t.Error("MessagePack output should be binary, not JSON")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	err := c.Unmarshal([]byte("not msgpack"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestEnvelopeTree(t *testing.T) {
	c := New()

	inner := typecast.NewObject(2)
	inner.Set(typecast.TagKey, "example.com/shapes.Point")
	inner.Set("X", 7)

	outer := typecast.NewObject(3)
	outer.Set(typecast.TagKey, "example.com/shapes.Line")
	outer.Set("Points", []any{inner, nil})
	outer.Set("Meta", map[string]any{"raw": []byte{0x01, 0x02}})

	data, err := c.Marshal(outer)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var tree any
	if err := c.Unmarshal(data, &tree); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	m, ok := tree.(map[string]any)
	if !ok {
		t.Fatalf("tree = %T, want map[string]any", tree)
	}
	if m[typecast.TagKey] != "example.com/shapes.Line" {
		t.Errorf("tag = %v", m[typecast.TagKey])
	}

	points, ok := m["Points"].([]any)
	if !ok || len(points) != 2 {
		t.Fatalf("Points = %#v", m["Points"])
	}
	p, ok := points[0].(map[string]any)
	if !ok {
		t.Fatalf("Points[0] = %T, want map[string]any", points[0])
	}
	if p["X"] != int8(7) {
		t.Errorf("Points[0].X = %#v, want int8(7)", p["X"])
	}

	meta := m["Meta"].(map[string]any)
	raw, ok := meta["raw"].([]byte)
	if !ok || len(raw) != 2 {
		t.Errorf("Meta.raw = %#v, want two bytes", meta["raw"])
	}
}
