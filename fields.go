package typecast

import "reflect"

// Field is a single named value produced by a Dump hook.
type Field struct {
	Name  string
	Value any
}

// Fields is the ordered field mapping a type writes into its envelope.
type Fields []Field

// Dumpable types opt into tagged encoding.
//
// Dump returns the fields written next to the type tag. Every name must match
// a field the type accepts on decode (see Auto for the naming rules); the
// output does not need to be complete, and fields left out decode to the
// registered blank prototype's values.
type Dumpable interface {
	Dump() Fields
}

// Auto returns every exported field of v in declaration order. It is the
// default Dump implementation:
//
//	func (p Point) Dump() typecast.Fields { return typecast.Auto(p) }
//
// Fields tagged `typecast:"-"` are skipped and `typecast:"name"` renames a
// field. A nil pointer yields nil.
func Auto[T any](v T) Fields {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	plan := planFor(rv.Type())
	fields := make(Fields, 0, len(plan.fields))
	for _, fp := range plan.fields {
		fields = append(fields, Field{
			Name:  fp.name,
			Value: rv.FieldByIndex(fp.index).Interface(),
		})
	}
	return fields
}
