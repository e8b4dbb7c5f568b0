package anyconv

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/ini.v1"
)

const iniArraySuffix = "[]"

var iniOptions = ini.LoadOptions{
	AllowShadows:             true,
	SpaceBeforeInlineComment: true,
}

type iniCodec struct{}

func (iniCodec) Format() Format { return INI }

// Decode puts default-section keys at the root and nests "[a.b]" sections.
// Keys written as "name[]" collect into a sequence, and the literals true,
// false and null become typed values. The result then goes through
// [iniArray].
func (iniCodec) Decode(data []byte) (any, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}
	root := NewObject()
	for _, sec := range f.Sections() {
		target := root
		if sec.Name() != ini.DefaultSection {
			target = iniSection(root, sec.Name())
		}
		for _, key := range sec.Keys() {
			values := key.ValueWithShadows()
			if name, ok := strings.CutSuffix(key.Name(), iniArraySuffix); ok {
				arr := make([]any, len(values))
				for i, s := range values {
					arr[i] = iniScalar(s)
				}
				target.Set(name, arr)
				continue
			}
			// Repeated plain keys: the last one wins.
			target.Set(key.Name(), iniScalar(values[len(values)-1]))
		}
	}
	if arr, ok := iniArray(root); ok {
		return arr, nil
	}
	return root, nil
}

// iniArray is the array-likeness heuristic. INI has no array syntax, so
// documents represent one with sections named "0", "1", ... When every key
// of o is a canonical non-negative integer and the keys are exactly 0..N-1,
// the values are returned in index order, so an empty mapping is the empty
// array. A gap, a duplicate such as "01", or any non-numeric key leaves o as
// a mapping.
func iniArray(o *Object) ([]any, bool) {
	n := o.Len()
	out := make([]any, n)
	ok := true
	o.Range(func(k string, v any) bool {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= n || strconv.Itoa(i) != k {
			ok = false
			return false
		}
		out[i] = v
		return true
	})
	if !ok {
		return nil, false
	}
	return out, true
}

func iniSection(root *Object, name string) *Object {
	cur := root
	for _, part := range strings.Split(name, ".") {
		next, ok := cur.values[part].(*Object)
		if !ok {
			next = NewObject()
			cur.Set(part, next)
		}
		cur = next
	}
	return cur
}

func iniScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	default:
		return s
	}
}

// Encode writes scalar and array entries of the root to the default section
// and each object entry as a section. A root array is written as sections
// named by index, which [iniArray] turns back into an array.
func (iniCodec) Encode(v any) ([]byte, error) {
	var root *Object
	switch x := v.(type) {
	case *Object:
		root = x
	case []any:
		root = NewObject()
		for i, e := range x {
			root.Set(strconv.Itoa(i), e)
		}
	default:
		return nil, fmt.Errorf("%w: INI encoding requires an object or an array, not %s", ErrEncoding, kindOf(v))
	}
	f := ini.Empty(iniOptions)
	if err := writeINISection(f, f.Section(""), "", root); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeINISection(f *ini.File, sec *ini.Section, name string, o *Object) error {
	var err error
	var children []string
	o.Range(func(k string, v any) bool {
		switch x := v.(type) {
		case *Object:
			children = append(children, k)
		case []any:
			err = writeINIArray(sec, k, x)
		default:
			var s string
			if s, err = iniString(v); err == nil {
				_, err = sec.NewKey(k, s)
			}
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	for _, k := range children {
		childName := k
		if name != "" {
			childName = name + "." + k
		}
		child, err := f.NewSection(childName)
		if err != nil {
			return err
		}
		val, _ := o.Get(k)
		if err := writeINISection(f, child, childName, val.(*Object)); err != nil {
			return err
		}
	}
	return nil
}

func writeINIArray(sec *ini.Section, name string, arr []any) error {
	var key *ini.Key
	for _, e := range arr {
		s, err := iniString(e)
		if err != nil {
			return err
		}
		if key == nil {
			if key, err = sec.NewKey(name+iniArraySuffix, s); err != nil {
				return err
			}
			continue
		}
		if err := key.AddShadow(s); err != nil {
			return err
		}
	}
	return nil
}

func iniString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case *Object, []any:
		b, err := marshalJSON(x)
		return string(b), err
	default:
		return cast.ToStringE(v)
	}
}
