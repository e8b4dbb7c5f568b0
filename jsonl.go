package anyconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

type jsonlCodec struct{}

func (jsonlCodec) Format() Format { return JSONL }

// Decode reads a sequence of JSON values separated by whitespace, usually one
// per line, into an array.
func (jsonlCodec) Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	items := []any{}
	for {
		v, err := readJSONValue(dec)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// Encode writes each element of an array as compact JSON on its own line.
func (jsonlCodec) Encode(v any) ([]byte, error) {
	items, err := requireArray(JSONL, v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, item := range items {
		if err := appendJSON(&buf, item); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
