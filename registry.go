package anyconv

import (
	"errors"
	"fmt"
	"slices"
)

// Registry maps each format to its codec. It is immutable once built and
// may be shared between goroutines.
type Registry struct {
	codecs map[Format]Codec
}

// NewRegistry builds a registry from codecs. Registering two codecs for the
// same format fails with [ErrDuplicateFormat].
func NewRegistry(codecs ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[Format]Codec, len(codecs))}
	for _, c := range codecs {
		if c == nil {
			return nil, errors.New("nil codec")
		}
		f := c.Format()
		if f == "" {
			return nil, fmt.Errorf("%w: codec %T has no format", ErrMissingFormat, c)
		}
		if _, ok := r.codecs[f]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFormat, f)
		}
		r.codecs[f] = c
	}
	return r, nil
}

// DefaultRegistry returns a registry holding every built-in codec.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		csonCodec{},
		newDelimitedCodec(CSV, ','),
		hjsonCodec{},
		iniCodec{},
		jsonCodec{},
		json5Codec{},
		jsonlCodec{},
		markdownCodec{},
		tableCodec{},
		tomlCodec{},
		newDelimitedCodec(TSV, '\t'),
		xlsCodec{},
		xlsxCodec{},
		xmlCodec{},
		yamlCodec{},
	)
	if err != nil {
		panic(err) // built-in formats are unique
	}
	return r
}

// Lookup returns the codec registered for f. The match is exact; callers
// normalize with [NormalizeFormat] first.
func (r *Registry) Lookup(f Format) (Codec, bool) {
	c, ok := r.codecs[f]
	return c, ok
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.codecs))
	for f := range r.codecs {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
