package anyconv

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMissingFormat   = errors.New("missing format")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrDecode          = errors.New("decode failed")
	ErrEncoding        = errors.New("encoding error")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrDuplicateFormat = errors.New("duplicate format")
)

// Format identifies a structured-text format.
type Format string

const (
	CSON     Format = "cson"
	CSV      Format = "csv"
	HJSON    Format = "hjson"
	INI      Format = "ini"
	JSON     Format = "json"
	JSON5    Format = "json5"
	JSONL    Format = "jsonl"
	Markdown Format = "markdown"
	Table    Format = "table"
	TOML     Format = "toml"
	TSV      Format = "tsv"
	XLS      Format = "xls"
	XLSX     Format = "xlsx"
	XML      Format = "xml"
	YAML     Format = "yaml"
)

// String returns the format name.
func (f Format) String() string { return string(f) }

// NormalizeFormat strips a single leading dot and lower-cases s, so that
// file extensions and format names compare equal.
func NormalizeFormat(s string) Format {
	s = strings.TrimPrefix(s, ".")
	return Format(strings.ToLower(s))
}

// Codec decodes and encodes exactly one format. Decode returns a Structured
// Value (see [Object]); Encode expects one. Implementations hold no state and
// are safe for concurrent use.
type Codec interface {
	Format() Format
	Decode(data []byte) (any, error)
	Encode(v any) ([]byte, error)
}

// Converter dispatches Decode and Encode calls to the codecs of a [Registry].
type Converter struct {
	registry *Registry
}

// New returns a Converter backed by r.
func New(r *Registry) *Converter {
	return &Converter{registry: r}
}

// Decode parses data as format. The format may carry a leading dot and any
// case. Codec failures match both [ErrDecode] and the underlying cause.
func (c *Converter) Decode(data []byte, format string) (any, error) {
	codec, err := c.lookup(format)
	if err != nil {
		return nil, err
	}
	v, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, codec.Format(), err)
	}
	return v, nil
}

// Encode serializes v as format. v may be a Structured Value or any Go value
// that [ToValue] accepts. No partial output is returned on failure.
func (c *Converter) Encode(v any, format string) ([]byte, error) {
	codec, err := c.lookup(format)
	if err != nil {
		return nil, err
	}
	val, err := ToValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	data, err := codec.Encode(val)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", codec.Format(), err)
	}
	return data, nil
}

// Formats returns the formats the converter can dispatch to.
func (c *Converter) Formats() []Format {
	return c.registry.Formats()
}

func (c *Converter) lookup(format string) (Codec, error) {
	f := NormalizeFormat(format)
	if f == "" {
		return nil, ErrMissingFormat
	}
	codec, ok := c.registry.Lookup(f)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return codec, nil
}

var defaultConverter = sync.OnceValue(func() *Converter {
	return New(DefaultRegistry())
})

// Decode parses data as format using the built-in codecs.
func Decode(data []byte, format string) (any, error) {
	return defaultConverter().Decode(data, format)
}

// Encode serializes v as format using the built-in codecs.
func Encode(v any, format string) ([]byte, error) {
	return defaultConverter().Encode(v, format)
}

// Formats returns all built-in formats in sorted order.
func Formats() []Format {
	return defaultConverter().Formats()
}
