// Package anyconv converts documents between structured data formats.
//
// Every format is handled by a [Codec] that decodes bytes into a Structured
// Value and encodes one back. A Structured Value is one of nil, bool, int64,
// float64, string, []any or *[Object]; objects keep their key order. The
// [Registry] maps format names to codecs and a [Converter] dispatches to it.
//
// The package-level [Decode] and [Encode] use the default registry:
//
//	v, err := anyconv.Decode(data, "yaml")
//	out, err := anyconv.Encode(v, "toml")
//
// Format names are case-insensitive and may carry a leading dot, so file
// extensions can be passed as-is:
//
//	v, err := anyconv.Decode(data, filepath.Ext(name))
//
// # Formats
//
// cson, csv, hjson, ini, json, json5, jsonl, markdown, table, toml, tsv, xls,
// xlsx, xml and yaml. Markdown and table are output only. Use [Formats] to list them at
// runtime.
//
// # Tabular Formats
//
// CSV, TSV, JSONL, Markdown and table encode arrays only. Rows may be objects, in
// which case the header is the union of their keys in first-seen order, or
// arrays, which are written verbatim.
//
// Workbooks (xls, xlsx) encode an array of rows as one sheet named Sheet1 or
// an object of sheet name to rows. A workbook with one sheet decodes to its
// rows; with more than one it decodes to an object of sheet name to rows.
//
// # INI
//
// A decoded INI document whose top-level keys are exactly "0" through "N-1"
// becomes an array, so numbered sections round trip through [Encode].
//
// # Byte Encodings
//
// [EncodingFor] reports whether a format's documents are text or binary so
// callers know whether input may be transcoded before decoding.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrMissingFormat]: no format name given
//   - [ErrUnknownFormat]: no codec for the format name
//   - [ErrDecode]: the codec rejected the input; the cause is wrapped too
//   - [ErrEncoding]: the value cannot be written in the format
//   - [ErrUnsupported]: the codec does not implement the operation
//   - [ErrDuplicateFormat]: two codecs registered for one format
package anyconv
