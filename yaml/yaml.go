// Package yaml provides a YAML codec implementation.
package yaml

import (
	"sort"

	"github.com/zoobzio/typecast"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements typecast.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() typecast.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Envelope objects become mapping nodes so their
// key order survives.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *typecast.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, val := range t.All() {
			if err := appendPair(node, k, val); err != nil {
				return nil, err
			}
		}
		return node, nil

	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := appendPair(node, k, t[k]); err != nil {
				return nil, err
			}
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, val := range t {
			child, err := toNode(val)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func appendPair(node *yaml.Node, key string, val any) error {
	child, err := toNode(val)
	if err != nil {
		return err
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		child,
	)
	return nil
}
