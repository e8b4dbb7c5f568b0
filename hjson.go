package anyconv

import (
	hjson "github.com/hjson/hjson-go/v4"
)

type hjsonCodec struct{}

func (hjsonCodec) Format() Format { return HJSON }

// Decode parses data with the hjson library. Object keys come back sorted.
func (hjsonCodec) Decode(data []byte) (any, error) {
	var v any
	if err := hjson.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return ToValue(v)
}

// Encode uses the library's default layout.
func (hjsonCodec) Encode(v any) ([]byte, error) {
	return hjson.Marshal(Plain(v))
}
