// Package testing provides fixture types and helpers for typecast tests.
package testing

import (
	"testing"
	"time"

	"github.com/zoobzio/typecast"
)

func init() {
	if err := RegisterAll(typecast.DefaultRegistry); err != nil {
		panic(err)
	}
}

// Point is the simplest fixture: every exported field, dumped by Auto.
type Point struct {
	X int
	Y string
}

// Dump implements typecast.Dumpable.
func (p Point) Dump() typecast.Fields { return typecast.Auto(p) }

// Shape nests Points by value, in a slice, and next to an untyped map.
type Shape struct {
	Name     string
	Origin   Point
	Vertices []Point
	Labels   map[string]string
}

// Dump implements typecast.Dumpable.
func (s Shape) Dump() typecast.Fields { return typecast.Auto(s) }

// Summary has a lossy hook. Note is never written, so a decoded Summary
// carries the registered default instead.
type Summary struct {
	Count int
	Note  string
}

// Dump implements typecast.Dumpable.
func (s Summary) Dump() typecast.Fields {
	return typecast.Fields{{Name: "Count", Value: s.Count}}
}

// DefaultNote is the Note every decoded Summary starts with.
const DefaultNote = "none"

// Gallery holds typed objects inside untyped containers.
type Gallery struct {
	Title string
	Items []any
	Index map[string]any
	Stamp time.Time
}

// Dump implements typecast.Dumpable.
func (g Gallery) Dump() typecast.Fields { return typecast.Auto(g) }

// Account uses a pointer-receiver hook plus field renames and skips.
type Account struct {
	ID     string `typecast:"id"`
	Secret string `typecast:"-"`
	Owner  *Point `typecast:"owner"`
	Scores []float64
	notes  string
}

// Dump implements typecast.Dumpable.
func (a *Account) Dump() typecast.Fields { return typecast.Auto(a) }

// WithNotes returns a copy of a carrying unexported state.
func (a Account) WithNotes(n string) Account {
	a.notes = n
	return a
}

// Notes returns the unexported state.
func (a Account) Notes() string { return a.notes }

// Orphan is dumpable but never registered.
type Orphan struct {
	Value int
}

// Dump implements typecast.Dumpable.
func (o Orphan) Dump() typecast.Fields { return typecast.Auto(o) }

// Opaque has no native shape and no hook.
type Opaque struct {
	C chan int
}

// RegisterAll adds every decodable fixture to r.
func RegisterAll(r *typecast.Registry) error {
	if err := typecast.RegisterIn[Point](r); err != nil {
		return err
	}
	if err := typecast.RegisterIn[Shape](r); err != nil {
		return err
	}
	if err := typecast.RegisterIn[Summary](r, typecast.WithBlank(func() Summary {
		return Summary{Note: DefaultNote}
	})); err != nil {
		return err
	}
	if err := typecast.RegisterIn[Gallery](r); err != nil {
		return err
	}
	return typecast.RegisterIn[Account](r)
}

// NewRegistry returns a registry holding every fixture.
func NewRegistry(t testing.TB) *typecast.Registry {
	t.Helper()
	r := typecast.NewRegistry()
	if err := RegisterAll(r); err != nil {
		t.Fatalf("RegisterAll() error: %v", err)
	}
	return r
}

// NewProcessor returns a processor over codec resolving against a fresh
// fixture registry.
func NewProcessor(t testing.TB, codec typecast.Codec) *typecast.Processor {
	t.Helper()
	return typecast.New(
		typecast.WithCodec(codec),
		typecast.WithRegistry(NewRegistry(t)),
	)
}

// SampleShape returns a fully populated Shape.
func SampleShape() Shape {
	return Shape{
		Name:   "triangle",
		Origin: Point{X: 1, Y: "origin"},
		Vertices: []Point{
			{X: 0, Y: "a"},
			{X: 3, Y: "b"},
			{X: -4, Y: "c"},
		},
		Labels: map[string]string{"color": "red", "fill": "none"},
	}
}

// SampleGallery returns a Gallery mixing typed and plain values.
func SampleGallery() Gallery {
	return Gallery{
		Title: "mixed",
		Items: []any{Point{X: 7, Y: "seven"}, "plain", Summary{Count: 2, Note: "dropped"}},
		Index: map[string]any{
			"first": Point{X: 1, Y: "one"},
			"count": 3,
		},
		Stamp: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}
