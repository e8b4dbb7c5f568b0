package anyconv

import (
	"bytes"
	"encoding/csv"
)

// delimitedCodec handles CSV and TSV. The first record is the header and
// every cell decodes to a string.
type delimitedCodec struct {
	format Format
	comma  rune
}

func newDelimitedCodec(f Format, comma rune) delimitedCodec {
	return delimitedCodec{format: f, comma: comma}
}

func (c delimitedCodec) Format() Format { return c.format }

func (c delimitedCodec) Decode(data []byte) (any, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = c.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = c.comma == '\t'
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := []any{}
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := NewObject()
		for i, h := range header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			row.Set(h, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode requires an array. See [tableRecords] for the row layout.
func (c delimitedCodec) Encode(v any) ([]byte, error) {
	items, err := requireArray(c.format, v)
	if err != nil {
		return nil, err
	}
	header, records, err := tableRecords(c.format, items)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = c.comma
	if header != nil {
		if err := cw.Write(header); err != nil {
			return nil, err
		}
	}
	if err := cw.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
