package anyconv

import (
	"fmt"
	"strconv"
)

const (
	defaultSheetName = "Sheet1"
	emptyHeader      = "__EMPTY"
)

// sheet is one named table of a workbook.
type sheet struct {
	name string
	rows []*Object
}

// workbookSheets accepts either an array of row objects, written as a single
// sheet, or an object of sheet name to rows, written in key order.
func workbookSheets(f Format, v any) ([]sheet, error) {
	switch x := v.(type) {
	case []any:
		rows, err := objectRows(f, x)
		if err != nil {
			return nil, err
		}
		return []sheet{{name: defaultSheetName, rows: rows}}, nil
	case *Object:
		if x.Len() == 0 {
			return nil, fmt.Errorf("%w: %s workbook needs at least one sheet", ErrEncoding, formatLabel(f))
		}
		sheets := make([]sheet, 0, x.Len())
		var err error
		x.Range(func(name string, e any) bool {
			items, ok := e.([]any)
			if !ok {
				err = fmt.Errorf("%w: %s sheet %q is %s, want array of rows", ErrEncoding, formatLabel(f), name, kindOf(e))
				return false
			}
			var rows []*Object
			if rows, err = objectRows(f, items); err != nil {
				return false
			}
			sheets = append(sheets, sheet{name: name, rows: rows})
			return true
		})
		if err != nil {
			return nil, err
		}
		return sheets, nil
	default:
		return nil, fmt.Errorf("%w: %s encoding requires an array of rows or an object of sheets, not %s", ErrEncoding, formatLabel(f), kindOf(v))
	}
}

// sheetGrid lays rows out under a header of every key in first-seen order.
// Missing cells are nil; nested values become compact JSON text.
func sheetGrid(rows []*Object) (header []string, grid [][]any, err error) {
	header = rowHeader(rows)
	grid = make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(header))
		for c, h := range header {
			v, _ := row.Get(h)
			switch v.(type) {
			case *Object, []any:
				b, err := marshalJSON(v)
				if err != nil {
					return nil, nil, err
				}
				v = string(b)
			}
			cells[c] = v
		}
		grid[r] = cells
	}
	return header, grid, nil
}

// gridRows turns a cell grid back into row objects. The first row is the
// header; blank header cells are named __EMPTY, __EMPTY_1, ... and repeated
// names get a numeric suffix. Empty cells decode to nil and rows without any
// value are skipped.
func gridRows(grid [][]any) []*Object {
	rows := []*Object{}
	if len(grid) == 0 {
		return rows
	}
	header := gridHeader(grid[0])
	for _, cells := range grid[1:] {
		if blankRow(cells) {
			continue
		}
		row := NewObject()
		for c, name := range header {
			var v any
			if c < len(cells) {
				v = cells[c]
			}
			if v == "" {
				v = nil
			}
			row.Set(name, v)
		}
		rows = append(rows, row)
	}
	return rows
}

func gridHeader(cells []any) []string {
	header := make([]string, len(cells))
	used := make(map[string]int)
	for i, c := range cells {
		name, _ := cellString(c)
		if name == "" {
			name = emptyHeader
		}
		if n, ok := used[name]; ok {
			used[name] = n + 1
			name += "_" + strconv.Itoa(n)
		} else {
			used[name] = 1
		}
		header[i] = name
	}
	return header
}

func blankRow(cells []any) bool {
	for _, c := range cells {
		if c != nil && c != "" {
			return false
		}
	}
	return true
}

// workbookValue applies the single-sheet collapse: one sheet decodes to its
// rows, more than one to an object of sheet name to rows.
func workbookValue(sheets []sheet) any {
	if len(sheets) == 1 {
		return rowsValue(sheets[0].rows)
	}
	obj := NewObject()
	for _, s := range sheets {
		obj.Set(s.name, rowsValue(s.rows))
	}
	return obj
}

func rowsValue(rows []*Object) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// sheetCell types a raw cell string: numbers when numeric is set and the text
// parses, the text otherwise.
func sheetCell(raw string, numeric bool) any {
	if raw == "" {
		return nil
	}
	if numeric {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return numberValue(f)
		}
	}
	return raw
}
