package anyconv

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	yamlIndent = 2
	yamlMerge  = "!!merge"
)

type yamlCodec struct{}

func (yamlCodec) Format() Format { return YAML }

// Decode reads the first document of data. Mapping order is kept, aliases
// are expanded and merge keys applied. An empty document decodes to nil.
func (yamlCodec) Decode(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return yamlValue(doc.Content[0])
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		return yamlMapping(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return ToValue(v)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func yamlMapping(n *yaml.Node) (*Object, error) {
	obj := NewObject()
	var merged []*Object
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == yamlMerge {
			srcs, err := yamlMergeSources(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, srcs...)
			continue
		}
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		obj.Set(yamlKey(k), val)
	}
	// Explicit keys win over merged ones; earlier merge sources win over later.
	for _, src := range merged {
		src.Range(func(key string, val any) bool {
			if _, ok := obj.Get(key); !ok {
				obj.Set(key, val)
			}
			return true
		})
	}
	return obj, nil
}

func yamlMergeSources(n *yaml.Node) ([]*Object, error) {
	v, err := yamlValue(n)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *Object:
		return []*Object{x}, nil
	case []any:
		out := make([]*Object, 0, len(x))
		for _, e := range x {
			o, ok := e.(*Object)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence must contain mappings", n.Line)
			}
			out = append(out, o)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
}

func yamlKey(k *yaml.Node) string {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		return k.Alias.Value
	}
	return k.Value
}

func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return yamlScalar("!!null", "null"), nil
	case bool:
		return yamlScalar("!!bool", strconv.FormatBool(x)), nil
	case int64:
		return yamlScalar("!!int", strconv.FormatInt(x, 10)), nil
	case float64:
		return yamlScalar("!!float", yamlFloat(x)), nil
	case string:
		return yamlScalar("!!str", x), nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			c, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		x.Range(func(k string, e any) bool {
			var c *yaml.Node
			if c, err = yamlNode(e); err != nil {
				return false
			}
			n.Content = append(n.Content, yamlScalar("!!str", k), c)
			return true
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrEncoding, v)
	}
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
