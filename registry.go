package typecast

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/zoobzio/sentinel"
)

// TypeDescriptor is a registered type that can be allocated blank and
// populated field by field without running any constructor.
type TypeDescriptor struct {
	tag   string
	typ   reflect.Type
	blank func() reflect.Value
	plan  *typePlan
}

// Tag returns the descriptor's type tag.
func (d *TypeDescriptor) Tag() string { return d.tag }

// Type returns the registered struct type.
func (d *TypeDescriptor) Type() reflect.Type { return d.typ }

// New allocates a blank instance and returns a pointer to it.
func (d *TypeDescriptor) New() reflect.Value {
	return d.blank()
}

// Assign sets the envelope field name on inst, which must come from New.
func (d *TypeDescriptor) Assign(inst reflect.Value, name string, value any) error {
	fp, ok := d.plan.field(name)
	if !ok {
		return newFieldError(ErrUnknownField, d.tag, name, nil)
	}
	dst := inst.Elem().FieldByIndex(fp.index)
	if err := convert(value, dst); err != nil {
		return newFieldError(ErrAssign, d.tag, name, err)
	}
	return nil
}

// Registry maps type tags to descriptors, grouped by namespace.
// Registries are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]*TypeDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]map[string]*TypeDescriptor)}
}

// DefaultRegistry is used by Register and by processors built without WithRegistry.
var DefaultRegistry = NewRegistry()

// RegisterOption configures a registration.
type RegisterOption[T any] func(*registration[T])

type registration[T any] struct {
	blank func() T
}

// WithBlank supplies the prototype every decoded instance starts from.
// Fields missing from an envelope keep the prototype's values.
func WithBlank[T any](blank func() T) RegisterOption[T] {
	return func(r *registration[T]) {
		r.blank = blank
	}
}

// Register adds T to DefaultRegistry.
func Register[T any](opts ...RegisterOption[T]) error {
	return RegisterIn[T](DefaultRegistry, opts...)
}

// MustRegister is Register for use in init functions. It panics on error.
func MustRegister[T any](opts ...RegisterOption[T]) {
	if err := Register[T](opts...); err != nil {
		panic(err)
	}
}

// RegisterIn adds T to r. T must be a named struct type. Registering a type
// again replaces its descriptor.
func RegisterIn[T any](r *Registry, opts ...RegisterOption[T]) error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return newTypeError(ErrInvalidType, rt.String(), "not a struct")
	}
	tag, ok := TagOf(rt)
	if !ok {
		return newTypeError(ErrInvalidType, rt.String(), "unnamed type")
	}

	var reg registration[T]
	for _, opt := range opts {
		opt(&reg)
	}

	blank := func() reflect.Value {
		return reflect.New(rt)
	}
	if reg.blank != nil {
		proto := reg.blank
		blank = func() reflect.Value {
			ptr := new(T)
			*ptr = proto()
			return reflect.ValueOf(ptr)
		}
	}

	desc := &TypeDescriptor{
		tag:   tag,
		typ:   rt,
		blank: blank,
		plan:  storePlan(rt, sentinel.Scan[T]()),
	}
	r.add(desc)

	emitRegistered(context.Background(), tag)
	return nil
}

func (r *Registry) add(desc *TypeDescriptor) {
	namespace, name, _ := SplitTag(desc.tag)

	r.mu.Lock()
	defer r.mu.Unlock()
	types, ok := r.namespaces[namespace]
	if !ok {
		types = make(map[string]*TypeDescriptor)
		r.namespaces[namespace] = types
	}
	types[name] = desc
}

// Resolve returns the descriptor registered under tag.
func (r *Registry) Resolve(tag string) (*TypeDescriptor, error) {
	namespace, name, ok := SplitTag(tag)
	if !ok {
		return nil, newTypeError(ErrUnknownType, tag, "malformed tag")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	types, ok := r.namespaces[namespace]
	if !ok {
		return nil, newTypeError(ErrUnknownType, tag, "namespace "+namespace+" not registered")
	}
	desc, ok := types[name]
	if !ok {
		return nil, newTypeError(ErrUnknownType, tag, "no type "+name+" in "+namespace)
	}
	return desc, nil
}

// Lookup returns the descriptor for t, if registered.
func (r *Registry) Lookup(t reflect.Type) (*TypeDescriptor, bool) {
	tag, ok := TagOf(t)
	if !ok {
		return nil, false
	}
	desc, err := r.Resolve(tag)
	if err != nil {
		return nil, false
	}
	return desc, true
}

// Tags returns every registered tag, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tags []string
	for _, types := range r.namespaces {
		for _, desc := range types {
			tags = append(tags, desc.tag)
		}
	}
	slices.Sort(tags)
	return tags
}

// Reset clears the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces = make(map[string]map[string]*TypeDescriptor)
}

// Reset clears DefaultRegistry and the field plan cache.
// This is primarily useful for test isolation.
func Reset() {
	DefaultRegistry.Reset()
	resetPlans()
}
