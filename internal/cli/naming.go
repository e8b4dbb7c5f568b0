package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/bjaus/anyconv"
	"github.com/spf13/cast"
)

const goTemplatePrefix = "go-template="

var errInvalidTemplate = errors.New("invalid template")

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// namer turns a split PATTERN into a file name per element.
type namer struct {
	pattern string
	tmpl    *template.Template
}

func newNamer(pattern string) (*namer, error) {
	src, ok := strings.CutPrefix(pattern, goTemplatePrefix)
	if !ok {
		return &namer{pattern: pattern}, nil
	}
	tmpl, err := template.New("name").Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidTemplate, err)
	}
	return &namer{tmpl: tmpl}, nil
}

// name renders the pattern for v. Placeholders naming a missing field, or
// any placeholder when v is not an object, are left as written.
func (n *namer) name(v any) (string, error) {
	if n.tmpl != nil {
		var b strings.Builder
		if err := n.tmpl.Execute(&b, anyconv.Plain(v)); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	obj, ok := v.(*anyconv.Object)
	if !ok {
		return n.pattern, nil
	}
	return placeholder.ReplaceAllStringFunc(n.pattern, func(m string) string {
		field, ok := obj.Get(m[1 : len(m)-1])
		if !ok {
			return m
		}
		return placeholderText(field)
	}), nil
}

func placeholderText(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	b, err := json.Marshal(anyconv.Plain(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
