package anyconv

import (
	"encoding/xml"

	"github.com/clbanning/mxj/v2"
)

const (
	xmlIndent  = "  "
	xmlRootTag = "root"
)

type xmlCodec struct{}

func (xmlCodec) Format() Format { return XML }

// Decode maps elements to object entries, attributes to "-name" keys and
// mixed text to "#text". Whether a value becomes an element or an attribute
// on the way back out is up to the library, so XML round trips are not
// guaranteed.
func (xmlCodec) Decode(data []byte) (any, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, err
	}
	return ToValue(map[string]any(m))
}

// Encode uses the key of a single-entry object as the document element
// unless its value is an array. Anything else is wrapped in a <root> element.
func (xmlCodec) Encode(v any) ([]byte, error) {
	var (
		out []byte
		err error
	)
	plain := Plain(v)
	switch x := plain.(type) {
	case map[string]any:
		if xmlSingleRoot(x) {
			out, err = mxj.Map(x).XmlIndent("", xmlIndent)
		} else {
			out, err = mxj.Map(x).XmlIndent("", xmlIndent, xmlRootTag)
		}
	default:
		out, err = mxj.AnyXmlIndent(plain, "", xmlIndent, xmlRootTag)
	}
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func xmlSingleRoot(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for _, v := range m {
		_, ok := v.([]any)
		return !ok
	}
	return false
}
