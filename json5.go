package anyconv

import (
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var identifierKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type json5Codec struct{}

func (json5Codec) Format() Format { return JSON5 }

// Decode parses data with the json5 library. Object keys come back sorted
// because the library decodes into Go maps.
func (json5Codec) Decode(data []byte) (any, error) {
	var v any
	if err := json5.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return ToValue(v)
}

// Encode writes JSON5 indented by four spaces. Keys that are valid
// identifiers are left unquoted.
func (json5Codec) Encode(v any) ([]byte, error) {
	var b strings.Builder
	if err := writeJSON5(&b, v, 0); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeJSON5(b *strings.Builder, v any, level int) error {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, e := range x {
			b.WriteString(strings.Repeat(jsonIndent, level+1))
			if err := writeJSON5(b, e, level+1); err != nil {
				return err
			}
			if i < len(x)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(jsonIndent, level))
		b.WriteByte(']')
	case *Object:
		if x.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		var err error
		i := 0
		x.Range(func(k string, e any) bool {
			b.WriteString(strings.Repeat(jsonIndent, level+1))
			b.WriteString(json5Key(k))
			b.WriteString(": ")
			if err = writeJSON5(b, e, level+1); err != nil {
				return false
			}
			if i < x.Len()-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			i++
			return true
		})
		if err != nil {
			return err
		}
		b.WriteString(strings.Repeat(jsonIndent, level))
		b.WriteByte('}')
	default:
		s, err := marshalJSON(v)
		if err != nil {
			return err
		}
		b.Write(s)
	}
	return nil
}

func json5Key(k string) string {
	if identifierKey.MatchString(k) {
		return k
	}
	return quoteJSON(k)
}
