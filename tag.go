package typecast

import (
	"reflect"
	"strings"
)

// TagKey is the reserved envelope key holding the type tag.
const TagKey = "__type__"

// TagOf returns the type tag for t: its import path and name joined by a dot.
// Pointer types are tagged by their element. Unnamed types have no tag.
func TagOf(t reflect.Type) (string, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return "", false
	}
	return t.PkgPath() + "." + t.Name(), true
}

// SplitTag separates a tag into namespace and type name. The split point is
// the last dot before any generic argument list, so "pkg.Box[other.T]"
// yields ("pkg", "Box[other.T]").
func SplitTag(tag string) (namespace, name string, ok bool) {
	head := tag
	if i := strings.IndexByte(tag, '['); i >= 0 {
		head = tag[:i]
	}
	i := strings.LastIndexByte(head, '.')
	if i <= 0 || i == len(head)-1 {
		return "", "", false
	}
	return tag[:i], tag[i+1:], true
}
