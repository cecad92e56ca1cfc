package typecast

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// decoder rewrites a generic tree so every tagged object becomes a live
// instance. Children are rewritten before the object that holds them.
type decoder struct {
	registry  *Registry
	instances int
}

func (d *decoder) rewrite(node any) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		if raw, ok := n[TagKey]; ok {
			return d.reconstruct(raw, n)
		}
		out := make(map[string]any, len(n))
		for k, v := range n {
			val, err := d.rewrite(v)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = val
		}
		return out, nil

	case map[any]any:
		normalized := make(map[string]any, len(n))
		for k, v := range n {
			normalized[fmt.Sprint(k)] = v
		}
		return d.rewrite(normalized)

	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			val, err := d.rewrite(v)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = val
		}
		return out, nil

	case json.Number:
		v, err := number(n)
		if err != nil {
			return nil, newCodecError(ErrUnmarshal, err)
		}
		return v, nil

	default:
		return node, nil
	}
}

// reconstruct builds the instance for one envelope. The input map is not modified.
func (d *decoder) reconstruct(raw any, envelope map[string]any) (any, error) {
	tag, ok := raw.(string)
	if !ok {
		return nil, newTypeError(ErrUnknownType, fmt.Sprint(raw), "tag is not a string")
	}

	desc, err := d.registry.Resolve(tag)
	if err != nil {
		return nil, err
	}

	inst := desc.New()
	for _, name := range slices.Sorted(maps.Keys(envelope)) {
		if name == TagKey {
			continue
		}
		val, err := d.rewrite(envelope[name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", desc.typ.Name(), name, err)
		}
		if err := desc.Assign(inst, name, val); err != nil {
			return nil, err
		}
	}

	d.instances++
	return inst.Interface(), nil
}
