package anyconv_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/bjaus/anyconv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
	"name": "anyconv",
	"version": 3,
	"ratio": 0.5,
	"tags": ["a", "b"],
	"nested": {"ok": true, "none": null},
	"rows": [{"id": 1}, {"id": 2}],
	"empty": {},
	"list": []
}`

func mustDecode(t *testing.T, data, format string) any {
	t.Helper()
	v, err := anyconv.Decode([]byte(data), format)
	require.NoError(t, err)
	return v
}

func assertSameValue(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(anyconv.Plain(want), anyconv.Plain(got)); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"json", "json5", "yaml", "hjson", "cson"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()
			want := mustDecode(t, sampleJSON, "json")
			out, err := anyconv.Encode(want, format)
			require.NoError(t, err)
			got, err := anyconv.Decode(out, format)
			require.NoError(t, err, "encoded %s:\n%s", format, out)
			assertSameValue(t, want, got)
		})
	}
}

func TestKeyOrderPreserved(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input  string
		format string
	}{
		"json": {input: `{"z": 1, "a": 2, "m": 3}`, format: "json"},
		"yaml": {input: "z: 1\na: 2\nm: 3\n", format: "yaml"},
		"toml": {input: "z = 1\na = 2\nm = 3\n", format: "toml"},
		"cson": {input: "z: 1\na: 2\nm: 3\n", format: "cson"},
		"ini":  {input: "z = 1\na = 2\nm = 3\n", format: "ini"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v := mustDecode(t, tt.input, tt.format)
			obj, ok := v.(*anyconv.Object)
			require.True(t, ok, "got %T", v)
			assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
		})
	}
}

func TestDecodeFormatNames(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		format  string
		wantErr require.ErrorAssertionFunc
	}{
		"plain":         {format: "json", wantErr: require.NoError},
		"leading dot":   {format: ".json", wantErr: require.NoError},
		"upper case":    {format: "JSON", wantErr: require.NoError},
		"dot and upper": {format: ".Json", wantErr: require.NoError},
		"unknown": {format: "foo", wantErr: func(t require.TestingT, err error, _ ...any) {
			require.ErrorIs(t, err, anyconv.ErrUnknownFormat)
			require.ErrorContains(t, err, "foo")
		}},
		"empty": {format: "", wantErr: func(t require.TestingT, err error, _ ...any) {
			require.ErrorIs(t, err, anyconv.ErrMissingFormat)
		}},
		"only a dot": {format: ".", wantErr: func(t require.TestingT, err error, _ ...any) {
			require.ErrorIs(t, err, anyconv.ErrMissingFormat)
		}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := anyconv.Decode([]byte(`{"a": 1}`), tt.format)
			tt.wantErr(t, err)
		})
	}
}

func TestEncodeFormatNames(t *testing.T) {
	t.Parallel()
	_, err := anyconv.Encode(map[string]any{"a": 1}, "foo")
	require.ErrorIs(t, err, anyconv.ErrUnknownFormat)

	_, err = anyconv.Encode(map[string]any{"a": 1}, "")
	require.ErrorIs(t, err, anyconv.ErrMissingFormat)

	out, err := anyconv.Encode(map[string]any{"a": 1}, ".YAML")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(out))
}

func TestDecodeFailureWrapsCause(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input  string
		format string
	}{
		"json":     {input: `{"a": `, format: "json"},
		"json5":    {input: `{a: }`, format: "json5"},
		"yaml":     {input: "a: [1, 2", format: "yaml"},
		"toml":     {input: "a = ", format: "toml"},
		"cson":     {input: "a: [1, 2", format: "cson"},
		"xml":      {input: "<a><b></a>", format: "xml"},
		"csv":      {input: "a,\"b\n1,2", format: "csv"},
		"jsonl":    {input: "{\"a\":1}\n{", format: "jsonl"},
		"xlsx":     {input: "not a workbook", format: "xlsx"},
		"markdown": {input: "| a |", format: "markdown"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := anyconv.Decode([]byte(tt.input), tt.format)
			require.ErrorIs(t, err, anyconv.ErrDecode)
			var wrapped interface{ Unwrap() []error }
			require.ErrorAs(t, err, &wrapped)
			assert.Len(t, wrapped.Unwrap(), 2)
		})
	}
}

func TestDecodeFailureCauseIsMatchable(t *testing.T) {
	t.Parallel()
	_, err := anyconv.Decode([]byte("a = "), "toml")
	var perr toml.ParseError
	require.ErrorAs(t, err, &perr)
	assert.True(t, errors.Is(err, anyconv.ErrDecode))
}

func TestOutputOnlyFormats(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"markdown", "table"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()
			_, err := anyconv.Decode([]byte("| a |\n| --- |\n"), format)
			require.ErrorIs(t, err, anyconv.ErrDecode)
			require.ErrorIs(t, err, anyconv.ErrUnsupported)
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("comments and trailing commas", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, "{\n  // line\n  \"a\": 1, /* block */\n  \"b\": [1, 2,],\n}", "json")
		assertSameValue(t, map[string]any{"a": int64(1), "b": []any{int64(1), int64(2)}}, v)
	})

	t.Run("four space indent without html escaping", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `{"a": "<b>", "n": [1]}`, "json"), "json")
		require.NoError(t, err)
		assert.Equal(t, "{\n    \"a\": \"<b>\",\n    \"n\": [\n        1\n    ]\n}", string(out))
	})

	t.Run("numbers", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, `[1, 1.0, 1.5, 9007199254740993, 1e3]`, "json")
		assert.Equal(t, []any{int64(1), int64(1), 1.5, int64(9007199254740993), int64(1000)}, v)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Decode([]byte(`{} {}`), "json")
		require.ErrorIs(t, err, anyconv.ErrDecode)
	})
}

func TestJSON5(t *testing.T) {
	t.Parallel()
	v := mustDecode(t, "{\n  // comment\n  unquoted: 'single',\n  trailing: [1, 2,],\n}", "json5")
	assertSameValue(t, map[string]any{
		"unquoted": "single",
		"trailing": []any{int64(1), int64(2)},
	}, v)

	obj := anyconv.NewObject()
	obj.Set("plain", 1)
	obj.Set("needs quotes", true)
	out, err := anyconv.Encode(obj, "json5")
	require.NoError(t, err)
	assert.Equal(t, "{\n    plain: 1,\n    \"needs quotes\": true\n}", string(out))
}

func TestCSON(t *testing.T) {
	t.Parallel()

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		input := `# settings
name: 'any\'conv'
version: 3
nested:
  ok: yes
  off: off
  list: [1, 2, 3]
inline: a: 1, b: 2
items: [
  {a: 1}
  {b: "two"}
]
pairs: [
  x: 1
  y: 2
]
###
block comment
###
hex: 0x1F
`
		v := mustDecode(t, input, "cson")
		assertSameValue(t, map[string]any{
			"name":    "any'conv",
			"version": int64(3),
			"nested": map[string]any{
				"ok":   true,
				"off":  false,
				"list": []any{int64(1), int64(2), int64(3)},
			},
			"inline": map[string]any{"a": int64(1), "b": int64(2)},
			"items":  []any{map[string]any{"a": int64(1)}, map[string]any{"b": "two"}},
			"pairs":  []any{map[string]any{"x": int64(1), "y": int64(2)}},
			"hex":    int64(31),
		}, v)
	})

	t.Run("encode", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, `{"name": "x", "nested": {"n": 1}, "list": [1, {"a": true}], "empty": {}}`, "json")
		out, err := anyconv.Encode(v, "cson")
		require.NoError(t, err)
		want := strings.Join([]string{
			`name: "x"`,
			`nested:`,
			`  n: 1`,
			`list: [`,
			`  1`,
			`  {`,
			`    a: true`,
			`  }`,
			`]`,
			`empty: {}`,
		}, "\n")
		assert.Equal(t, want, string(out))
	})

	t.Run("bad indentation", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Decode([]byte("a: 1\n    b: 2\n"), "cson")
		require.ErrorIs(t, err, anyconv.ErrDecode)
		assert.ErrorContains(t, err, "line 2")
	})
}

func TestYAML(t *testing.T) {
	t.Parallel()

	t.Run("aliases and merge keys", func(t *testing.T) {
		t.Parallel()
		input := `base: &base
  a: 1
  b: 2
child:
  <<: *base
  b: 3
ref: *base
`
		v := mustDecode(t, input, "yaml")
		assertSameValue(t, map[string]any{
			"base":  map[string]any{"a": int64(1), "b": int64(2)},
			"child": map[string]any{"a": int64(1), "b": int64(3)},
			"ref":   map[string]any{"a": int64(1), "b": int64(2)},
		}, v)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, mustDecode(t, "", "yaml"))
	})

	t.Run("encode keeps order", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `{"z": "1", "a": null, "m": 1.5}`, "json"), "yaml")
		require.NoError(t, err)
		assert.Equal(t, "z: \"1\"\na: null\nm: 1.5\n", string(out))
	})
}

func TestTOML(t *testing.T) {
	t.Parallel()

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, "title = \"x\"\n[owner]\nname = \"y\"\nborn = 1979-05-27T07:32:00Z\n", "toml")
		assertSameValue(t, map[string]any{
			"title": "x",
			"owner": map[string]any{"name": "y", "born": "1979-05-27T07:32:00Z"},
		}, v)
	})

	t.Run("root must be a table", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Encode([]any{1, 2}, "toml")
		require.ErrorIs(t, err, anyconv.ErrEncoding)
	})

	t.Run("nulls are dropped", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `{"a": 1, "b": null}`, "json"), "toml")
		require.NoError(t, err)
		assertSameValue(t, map[string]any{"a": int64(1)}, mustDecode(t, string(out), "toml"))
	})
}

func TestINI(t *testing.T) {
	t.Parallel()

	t.Run("sections and scalars", func(t *testing.T) {
		t.Parallel()
		input := `top = 1
flag = true
nothing = null
list[] = a
list[] = b

[server.http]
port = 8080
`
		v := mustDecode(t, input, "ini")
		assertSameValue(t, map[string]any{
			"top":     "1",
			"flag":    true,
			"nothing": nil,
			"list":    []any{"a", "b"},
			"server":  map[string]any{"http": map[string]any{"port": "8080"}},
		}, v)
	})

	t.Run("contiguous numeric sections become an array", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, "[0]\na = x\n[1]\na = y\n[2]\na = z\n", "ini")
		assertSameValue(t, []any{
			map[string]any{"a": "x"},
			map[string]any{"a": "y"},
			map[string]any{"a": "z"},
		}, v)
	})

	t.Run("a gap keeps the mapping", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, "[0]\na = x\n[2]\na = z\n", "ini")
		obj, ok := v.(*anyconv.Object)
		require.True(t, ok, "got %T", v)
		assert.Equal(t, []string{"0", "2"}, obj.Keys())
	})

	t.Run("array round trip", func(t *testing.T) {
		t.Parallel()
		want := mustDecode(t, `[{"a": "x"}, {"a": "y"}]`, "json")
		out, err := anyconv.Encode(want, "ini")
		require.NoError(t, err)
		assertSameValue(t, want, mustDecode(t, string(out), "ini"))
	})

	t.Run("empty document is an empty array", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"", "; only a comment\n"} {
			v, err := anyconv.Decode([]byte(input), "ini")
			require.NoError(t, err)
			assert.Equal(t, []any{}, v, "input %q", input)
		}
	})

	t.Run("scalar root", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Encode("x", "ini")
		require.ErrorIs(t, err, anyconv.ErrEncoding)
	})
}

func TestXML(t *testing.T) {
	t.Parallel()
	v := mustDecode(t, `<a id="7"><b>1</b><b>2</b></a>`, "xml")
	assertSameValue(t, map[string]any{
		"a": map[string]any{"-id": "7", "b": []any{"1", "2"}},
	}, v)

	out, err := anyconv.Encode(mustDecode(t, `{"a": {"b": "1"}}`, "json"), "xml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(out), "<a>")
	assert.Contains(t, string(out), "<b>1</b>")

	out, err = anyconv.Encode(mustDecode(t, `{"a": "1", "b": "2"}`, "json"), "xml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<root>")

	out, err = anyconv.Encode(mustDecode(t, `{"a": ["1", "2"]}`, "json"), "xml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<root>")

	t.Run("single scalar element round trips", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, `<a>1</a>`, "xml")
		assertSameValue(t, map[string]any{"a": "1"}, v)
		out, err := anyconv.Encode(v, "xml")
		require.NoError(t, err)
		assert.NotContains(t, string(out), "<root>")
		assertSameValue(t, v, mustDecode(t, string(out), "xml"))
	})
}

func TestCSV(t *testing.T) {
	t.Parallel()

	t.Run("json to csv", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]`, "json"), "csv")
		require.NoError(t, err)
		assert.Equal(t, "id,name\n1,A\n2,B\n", string(out))
	})

	t.Run("values decode as strings", func(t *testing.T) {
		t.Parallel()
		v := mustDecode(t, "id,name\n1,A\n2,B\n", "csv")
		assertSameValue(t, []any{
			map[string]any{"id": "1", "name": "A"},
			map[string]any{"id": "2", "name": "B"},
		}, v)
	})

	t.Run("header is the union of keys", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `[{"a": 1}, {"b": {"c": true}}]`, "json"), "csv")
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,\n,\"{\"\"c\"\":true}\"\n", string(out))
	})

	t.Run("array rows are written verbatim", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `[["h1", "h2"], [1, null]]`, "json"), "tsv")
		require.NoError(t, err)
		assert.Equal(t, "h1\th2\n1\t\n", string(out))
	})

	t.Run("requires an array", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Encode(map[string]any{"a": 1}, "csv")
		require.ErrorIs(t, err, anyconv.ErrEncoding)
		assert.ErrorContains(t, err, "CSV encoding requires the object be an array")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []any{}, mustDecode(t, "", "csv"))
	})
}

func TestJSONL(t *testing.T) {
	t.Parallel()
	v := mustDecode(t, "{\"a\":1}\n\n{\"a\":2}\n", "jsonl")
	assertSameValue(t, []any{map[string]any{"a": int64(1)}, map[string]any{"a": int64(2)}}, v)

	out, err := anyconv.Encode(v, "jsonl")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", string(out))

	_, err = anyconv.Encode(map[string]any{}, "jsonl")
	require.ErrorIs(t, err, anyconv.ErrEncoding)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()
	out, err := anyconv.Encode(mustDecode(t, `[{"name": "A|B", "n": 1}, {"name": "世界", "n": 22}]`, "json"), "markdown")
	require.NoError(t, err)
	want := "| name | n   |\n" +
		"| ---- | --- |\n" +
		"| A\\|B | 1   |\n" +
		"| 世界 | 22  |\n"
	assert.Equal(t, want, string(out))
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("object rows", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `[{"name": "A", "n": 1}, {"name": "世界", "n": 22}]`, "json"), "table")
		require.NoError(t, err)
		want := "╭──────┬────╮\n" +
			"│ name │ n  │\n" +
			"├──────┼────┤\n" +
			"│ A    │ 1  │\n" +
			"│ 世界 │ 22 │\n" +
			"╰──────┴────╯\n"
		assert.Equal(t, want, string(out))
	})

	t.Run("newlines in cells are flattened", func(t *testing.T) {
		t.Parallel()
		out, err := anyconv.Encode(mustDecode(t, `[["k"], ["a\nb"]]`, "json"), "table")
		require.NoError(t, err)
		assert.Contains(t, string(out), "│ a b │\n")
	})

	t.Run("requires an array", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.Encode(mustDecode(t, `{"a": 1}`, "json"), "table")
		require.ErrorIs(t, err, anyconv.ErrEncoding)
	})
}

func TestWorkbooks(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"xlsx", "xls"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			t.Run("one sheet collapses to rows", func(t *testing.T) {
				t.Parallel()
				want := mustDecode(t, `[{"id": 1, "name": "A", "ok": true}, {"id": 2.5, "name": "B", "ok": false}]`, "json")
				out, err := anyconv.Encode(want, format)
				require.NoError(t, err)
				got, err := anyconv.Decode(out, format)
				require.NoError(t, err)
				assertSameValue(t, want, got)
			})

			t.Run("several sheets decode to an object", func(t *testing.T) {
				t.Parallel()
				want := mustDecode(t, `{"first": [{"a": "x"}], "second": [{"b": 1}, {"b": 2}]}`, "json")
				out, err := anyconv.Encode(want, format)
				require.NoError(t, err)
				got, err := anyconv.Decode(out, format)
				require.NoError(t, err)
				obj, ok := got.(*anyconv.Object)
				require.True(t, ok, "got %T", got)
				assert.Equal(t, []string{"first", "second"}, obj.Keys())
				assertSameValue(t, want, got)
			})

			t.Run("missing cells decode as null", func(t *testing.T) {
				t.Parallel()
				out, err := anyconv.Encode(mustDecode(t, `[{"a": 1, "b": "x"}, {"b": "y"}]`, "json"), format)
				require.NoError(t, err)
				got, err := anyconv.Decode(out, format)
				require.NoError(t, err)
				assertSameValue(t, []any{
					map[string]any{"a": int64(1), "b": "x"},
					map[string]any{"a": nil, "b": "y"},
				}, got)
			})

			t.Run("scalar is rejected", func(t *testing.T) {
				t.Parallel()
				_, err := anyconv.Encode("x", format)
				require.ErrorIs(t, err, anyconv.ErrEncoding)
			})
		})
	}
}

func TestEncodingFor(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		format string
		want   anyconv.Encoding
	}{
		"xlsx":       {format: "xlsx", want: anyconv.Binary},
		"xls":        {format: "xls", want: anyconv.Binary},
		"extension":  {format: ".XLSX", want: anyconv.Binary},
		"json":       {format: "json", want: anyconv.UTF8},
		"csv":        {format: ".csv", want: anyconv.UTF8},
		"unknown":    {format: "foo", want: anyconv.UTF8},
		"empty name": {format: "", want: anyconv.UTF8},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, anyconv.EncodingFor(tt.format))
		})
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()
	want := []anyconv.Format{
		anyconv.CSON, anyconv.CSV, anyconv.HJSON, anyconv.INI, anyconv.JSON,
		anyconv.JSON5, anyconv.JSONL, anyconv.Markdown, anyconv.Table, anyconv.TOML,
		anyconv.TSV, anyconv.XLS, anyconv.XLSX, anyconv.XML, anyconv.YAML,
	}
	assert.Equal(t, want, anyconv.Formats())
}

type stubCodec struct{ format anyconv.Format }

func (c stubCodec) Format() anyconv.Format   { return c.format }
func (stubCodec) Decode([]byte) (any, error) { return "stub", nil }
func (stubCodec) Encode(any) ([]byte, error) { return []byte("stub"), nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("duplicate format", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.NewRegistry(stubCodec{"x"}, stubCodec{"x"})
		require.ErrorIs(t, err, anyconv.ErrDuplicateFormat)
	})

	t.Run("codec without a format", func(t *testing.T) {
		t.Parallel()
		_, err := anyconv.NewRegistry(stubCodec{""})
		require.ErrorIs(t, err, anyconv.ErrMissingFormat)
	})

	t.Run("custom converter", func(t *testing.T) {
		t.Parallel()
		r, err := anyconv.NewRegistry(stubCodec{"x"})
		require.NoError(t, err)
		c := anyconv.New(r)
		assert.Equal(t, []anyconv.Format{"x"}, c.Formats())

		v, err := c.Decode(nil, ".X")
		require.NoError(t, err)
		assert.Equal(t, "stub", v)

		_, err = c.Decode(nil, "json")
		require.ErrorIs(t, err, anyconv.ErrUnknownFormat)
	})
}

func TestToValue(t *testing.T) {
	t.Parallel()
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	tests := map[string]struct {
		input any
		want  any
	}{
		"struct":      {input: person{Name: "A", Age: 3}, want: map[string]any{"name": "A", "age": int64(3)}},
		"int":         {input: 7, want: int64(7)},
		"float":       {input: float32(1.5), want: 1.5},
		"map":         {input: map[string]int{"b": 2, "a": 1}, want: map[string]any{"a": int64(1), "b": int64(2)}},
		"slice":       {input: []string{"x", "y"}, want: []any{"x", "y"}},
		"nil":         {input: nil, want: nil},
		"nil pointer": {input: (*person)(nil), want: nil},
		"nested any":  {input: []any{map[string]any{"k": []int{1}}}, want: []any{map[string]any{"k": []any{int64(1)}}}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := anyconv.ToValue(tt.input)
			require.NoError(t, err)
			assertSameValue(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsUnencodable(t *testing.T) {
	t.Parallel()
	_, err := anyconv.Encode(make(chan int), "json")
	require.ErrorIs(t, err, anyconv.ErrEncoding)
}

func TestObject(t *testing.T) {
	t.Parallel()
	obj := anyconv.NewObject()
	obj.Set("b", 1)
	obj.Set("a", 2)
	obj.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())
	v, ok := obj.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	out, err := obj.MarshalJSON()
	require.Error(t, err, "ints must be converted with ToValue first")
	assert.Nil(t, out)

	val, err := anyconv.ToValue(obj)
	require.NoError(t, err)
	out, err = val.(*anyconv.Object).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2}`, string(out))

	var zero anyconv.Object
	zero.Set("k", "v")
	assert.Equal(t, []string{"k"}, zero.Keys())
}
