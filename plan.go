package typecast

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// fieldTag renames or skips a field in envelopes: `typecast:"name"` or `typecast:"-"`.
const fieldTag = "typecast"

func init() {
	sentinel.Tag(fieldTag)
}

// fieldPlan describes how to read and write a single envelope field.
type fieldPlan struct {
	index  []int        // reflect.Value.FieldByIndex access path
	name   string       // envelope field name
	goName string       // struct field name for error messages
	typ    reflect.Type // declared field type
}

// typePlan is the ordered set of envelope fields for a struct type.
type typePlan struct {
	typeName string
	fields   []fieldPlan
	byName   map[string]int
}

func (tp *typePlan) field(name string) (fieldPlan, bool) {
	i, ok := tp.byName[name]
	if !ok {
		return fieldPlan{}, false
	}
	return tp.fields[i], true
}

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// planFor returns the cached plan for struct type rt or builds one.
func planFor(rt reflect.Type) *typePlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	return storePlan(rt, scanType(rt))
}

// storePlan builds a plan from metadata and caches it, keeping any plan that
// won a concurrent race.
func storePlan(rt reflect.Type, meta sentinel.Metadata) *typePlan {
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[rt]; ok {
		return cached
	}

	plan := buildPlan(rt, trustMetadata(rt, meta))
	plans[rt] = plan
	return plan
}

// candidate is a field found while walking embedded structs.
type candidate struct {
	fieldPlan
	depth  int
	tagged bool
}

// buildPlan turns scanned metadata into an envelope field plan. Unexported
// fields are internal state and never appear in envelopes. Fields of embedded
// structs are promoted with the precedence encoding/json uses: the shallowest
// field wins, then an explicitly named one, and remaining ties drop the name.
func buildPlan(rt reflect.Type, meta sentinel.Metadata) *typePlan {
	var found []candidate
	collectFields(rt, meta.Fields, nil, 0, map[reflect.Type]bool{rt: true}, &found)

	byName := make(map[string][]candidate, len(found))
	for _, c := range found {
		byName[c.name] = append(byName[c.name], c)
	}

	kept := make([]fieldPlan, 0, len(byName))
	for _, group := range byName {
		if fp, ok := dominant(group); ok {
			kept = append(kept, fp)
		}
	}
	slices.SortFunc(kept, func(a, b fieldPlan) int {
		return slices.Compare(a.index, b.index)
	})

	plan := &typePlan{
		typeName: meta.TypeName,
		fields:   kept,
		byName:   make(map[string]int, len(kept)),
	}
	for i, fp := range kept {
		plan.byName[fp.name] = i
	}
	return plan
}

func collectFields(owner reflect.Type, fields []sentinel.FieldMetadata, prefix []int, depth int, visiting map[reflect.Type]bool, out *[]candidate) {
	for _, field := range fields {
		sf, ok := structField(owner, field.Index)
		if !ok {
			continue
		}
		name, tagged, keep := envelopeName(sf, field.Tags)
		if !keep {
			continue
		}

		index := append(append([]int{}, prefix...), field.Index...)

		if promotes(sf) && !tagged {
			if visiting[sf.Type] {
				continue
			}
			visiting[sf.Type] = true
			collectFields(sf.Type, reflectMetadata(sf.Type).Fields, index, depth+1, visiting, out)
			delete(visiting, sf.Type)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		*out = append(*out, candidate{
			fieldPlan: fieldPlan{
				index:  index,
				name:   name,
				goName: sf.Name,
				typ:    sf.Type,
			},
			depth:  depth,
			tagged: tagged,
		})
	}
}

// promotes reports whether the fields of embedded field sf are promoted into
// the envelope. Embedded types with a text form stay a single field.
func promotes(sf reflect.StructField) bool {
	if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
		return false
	}
	return !sf.Type.Implements(textMarshalerType) && !reflect.PointerTo(sf.Type).Implements(textMarshalerType)
}

func dominant(group []candidate) (fieldPlan, bool) {
	depth := group[0].depth
	for _, c := range group[1:] {
		depth = min(depth, c.depth)
	}

	var shallow, tagged []candidate
	for _, c := range group {
		if c.depth != depth {
			continue
		}
		shallow = append(shallow, c)
		if c.tagged {
			tagged = append(tagged, c)
		}
	}

	switch {
	case len(tagged) == 1:
		return tagged[0].fieldPlan, true
	case len(tagged) == 0 && len(shallow) == 1:
		return shallow[0].fieldPlan, true
	default:
		return fieldPlan{}, false
	}
}

// structField resolves an index path without crossing pointers.
func structField(rt reflect.Type, index []int) (reflect.StructField, bool) {
	if len(index) == 0 {
		return reflect.StructField{}, false
	}
	var sf reflect.StructField
	current := rt
	for _, i := range index {
		if current.Kind() != reflect.Struct || i >= current.NumField() {
			return reflect.StructField{}, false
		}
		sf = current.Field(i)
		current = sf.Type
	}
	return sf, true
}

// envelopeName returns the field's envelope name, whether the tag named it
// explicitly, and whether it is kept.
func envelopeName(sf reflect.StructField, tags map[string]string) (name string, tagged, keep bool) {
	tag, ok := tags[fieldTag]
	if !ok {
		tag = sf.Tag.Get(fieldTag)
	}
	name, _, _ = strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", false, false
	case "":
		return sf.Name, false, true
	default:
		return name, true, true
	}
}

// scanType returns metadata for struct type rt, preferring sentinel's cache.
func scanType(rt reflect.Type) sentinel.Metadata {
	meta, _ := sentinel.Lookup(rt.Name())
	return meta
}

// trustMetadata returns meta when it describes rt itself, and metadata read
// from rt by reflection otherwise. Sentinel keys its cache by bare type name,
// so a.Point and b.Point share an entry. It also leaves out unexported
// embedded structs, which still promote exported fields.
func trustMetadata(rt reflect.Type, meta sentinel.Metadata) sentinel.Metadata {
	direct := reflectMetadata(rt)
	if meta.PackageName != rt.PkgPath() || meta.TypeName != rt.Name() || len(meta.Fields) != len(direct.Fields) {
		return direct
	}
	for i, fm := range meta.Fields {
		if !slices.Equal(fm.Index, direct.Fields[i].Index) || fm.Name != direct.Fields[i].Name {
			return direct
		}
	}
	return meta
}

// reflectMetadata reads the direct fields of struct type rt: every exported
// field and every embedded struct.
func reflectMetadata(rt reflect.Type) sentinel.Metadata {
	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		embedded := sf.Anonymous && sf.Type.Kind() == reflect.Struct
		if !sf.IsExported() && !embedded {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if val, ok := sf.Tag.Lookup(fieldTag); ok {
			fm.Tags[fieldTag] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// resetPlans clears the plan cache.
func resetPlans() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}
