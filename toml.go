package anyconv

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
)

type tomlCodec struct{}

func (tomlCodec) Format() Format { return TOML }

// Decode keeps keys in document order using the decoder's key metadata.
// Dates and times become RFC 3339 strings.
func (tomlCodec) Decode(data []byte) (any, error) {
	var m map[string]any
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	return tomlValue(m, "", tomlKeyOrder(md.Keys()))
}

// Encode requires a table at the root. TOML has no null, so nil entries are
// left out.
func (tomlCodec) Encode(v any) ([]byte, error) {
	root, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: TOML documents need a table at the root, not %s", ErrEncoding, kindOf(v))
	}
	return gotoml.Marshal(Plain(dropNulls(root)))
}

// tomlKeyOrder maps each table path to its child keys in first-seen order.
// Array indices are not part of a path, so all tables of an array share one
// ordering.
func tomlKeyOrder(keys []toml.Key) map[string][]string {
	order := make(map[string][]string)
	seen := make(map[string]bool)
	for _, key := range keys {
		for i := range key {
			parent := strings.Join(key[:i], "\x00")
			id := parent + "\x00\x00" + key[i]
			if seen[id] {
				continue
			}
			seen[id] = true
			order[parent] = append(order[parent], key[i])
		}
	}
	return order
}

func tomlValue(v any, path string, order map[string][]string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		obj := NewObject()
		add := func(k string) error {
			child := k
			if path != "" {
				child = path + "\x00" + k
			}
			e, err := tomlValue(x[k], child, order)
			if err != nil {
				return err
			}
			obj.Set(k, e)
			return nil
		}
		for _, k := range order[path] {
			if _, ok := x[k]; ok {
				if err := add(k); err != nil {
					return nil, err
				}
			}
		}
		for _, k := range sortedKeys(x) {
			if _, ok := obj.Get(k); !ok {
				if err := add(k); err != nil {
					return nil, err
				}
			}
		}
		return obj, nil
	case []map[string]any:
		arr := make([]any, len(x))
		for i, e := range x {
			val, err := tomlValue(e, path, order)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case []any:
		arr := make([]any, len(x))
		for i, e := range x {
			val, err := tomlValue(e, path, order)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	default:
		return ToValue(v)
	}
}

func dropNulls(v any) any {
	switch x := v.(type) {
	case *Object:
		out := NewObject()
		x.Range(func(k string, e any) bool {
			if e != nil {
				out.Set(k, dropNulls(e))
			}
			return true
		})
		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			if e != nil {
				out = append(out, dropNulls(e))
			}
		}
		return out
	default:
		return v
	}
}
