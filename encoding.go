package anyconv

// Encoding is the byte representation a format's documents are stored in.
type Encoding string

const (
	Binary Encoding = "binary"
	UTF8   Encoding = "utf8"
)

// EncodingFor reports how documents of format are stored. Workbook formats
// are binary; everything else, including unknown formats, is UTF-8 text.
func EncodingFor(format string) Encoding {
	switch NormalizeFormat(format) {
	case XLS, XLSX:
		return Binary
	default:
		return UTF8
	}
}
