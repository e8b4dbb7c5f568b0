package anyconv

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// tableRecords lays out an array as string records. Rows that are objects
// produce a header of every key in first-seen order; rows that are arrays are
// written as they are. Mixing the two is an error.
func tableRecords(f Format, items []any) (header []string, records [][]string, err error) {
	if len(items) == 0 {
		return nil, nil, nil
	}
	if _, ok := items[0].([]any); ok {
		for i, item := range items {
			row, ok := item.([]any)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s row %d is %s, want array", ErrEncoding, formatLabel(f), i, kindOf(item))
			}
			rec, err := cellStrings(row)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, rec)
		}
		return nil, records, nil
	}
	rows, err := objectRows(f, items)
	if err != nil {
		return nil, nil, err
	}
	header = rowHeader(rows)
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, h := range header {
			v, _ := row.Get(h)
			if rec[i], err = cellString(v); err != nil {
				return nil, nil, err
			}
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func objectRows(f Format, items []any) ([]*Object, error) {
	rows := make([]*Object, len(items))
	for i, item := range items {
		row, ok := item.(*Object)
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d is %s, want object", ErrEncoding, formatLabel(f), i, kindOf(item))
		}
		rows[i] = row
	}
	return rows, nil
}

func rowHeader(rows []*Object) []string {
	var header []string
	seen := make(map[string]bool)
	for _, row := range rows {
		row.Range(func(k string, _ any) bool {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
			return true
		})
	}
	return header
}

func cellStrings(row []any) ([]string, error) {
	out := make([]string, len(row))
	for i, v := range row {
		s, err := cellString(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// cellString renders a cell. Nested values are written as compact JSON.
func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case *Object, []any:
		b, err := marshalJSON(x)
		return string(b), err
	default:
		return cast.ToStringE(v)
	}
}

func formatLabel(f Format) string {
	return strings.ToUpper(string(f))
}

func requireArray(f Format, v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s encoding requires the object be an array", ErrEncoding, formatLabel(f))
	}
	return items, nil
}
