package anyconv

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// Object is a string-keyed mapping that remembers insertion order. It is the
// mapping case of a Structured Value; the other cases are nil, bool, int64,
// float64, string and []any.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position. The zero Object is ready to use.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// MarshalJSON writes the entries in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return marshalJSON(o)
}

// Plain converts a Structured Value into map[string]any and []any, the shape
// most Go libraries accept. Key order is lost.
func Plain(v any) any {
	switch x := v.(type) {
	case *Object:
		m := make(map[string]any, x.Len())
		x.Range(func(k string, v any) bool {
			m[k] = Plain(v)
			return true
		})
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// ToValue converts a Go value into a Structured Value. Maps become Objects
// with sorted keys, integral numbers become int64, other numbers float64 and
// timestamps RFC 3339 strings. Values it has no direct rule for, such as
// structs, go through their JSON encoding.
func ToValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64:
		return x, nil
	case float64:
		return numberValue(x), nil
	case float32:
		return numberValue(float64(x)), nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return uintValue(uint64(x)), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return uintValue(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		return numberValue(f), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case *Object:
		out := NewObject()
		var err error
		x.Range(func(k string, v any) bool {
			var e any
			if e, err = ToValue(v); err != nil {
				return false
			}
			out.Set(k, e)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case map[string]any:
		out := NewObject()
		for _, k := range sortedKeys(x) {
			e, err := ToValue(x[k])
			if err != nil {
				return nil, err
			}
			out.Set(k, e)
		}
		return out, nil
	case []any:
		return sliceValue(len(x), func(i int) any { return x[i] })
	case []map[string]any:
		return sliceValue(len(x), func(i int) any { return x[i] })
	case fmt.Stringer:
		return x.String(), nil
	}
	return reflectValue(v)
}

func reflectValue(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return ToValue(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return ToValue(m)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		return sliceValue(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintValue(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return numberValue(rv.Float()), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unsupported value %T: %w", v, err)
	}
	return decodeJSON(data)
}

func sliceValue(n int, at func(int) any) (any, error) {
	out := make([]any, n)
	for i := range n {
		e, err := ToValue(at(i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

func numberValue(f float64) any {
	if f == math.Trunc(f) && f >= -maxSafeInteger && f <= maxSafeInteger {
		return int64(f)
	}
	return f
}

func uintValue(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// kindOf names the Structured Value case of v for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
