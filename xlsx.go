package anyconv

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

type xlsxCodec struct{}

func (xlsxCodec) Format() Format { return XLSX }

// Decode reads every sheet in workbook order. Numeric and boolean cells keep
// their type; see [gridRows] and [workbookValue] for the row layout.
func (xlsxCodec) Decode(data []byte) (any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		grid := make([][]any, len(rows))
		for r, row := range rows {
			cells := make([]any, len(row))
			for c, raw := range row {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				typ, err := f.GetCellType(name, axis)
				if err != nil {
					return nil, err
				}
				cells[c] = xlsxCell(raw, typ)
			}
			grid[r] = cells
		}
		sheets = append(sheets, sheet{name: name, rows: gridRows(grid)})
	}
	return workbookValue(sheets), nil
}

func xlsxCell(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return sheetCell(raw, true)
	default:
		return sheetCell(raw, false)
	}
}

// Encode writes each sheet with a header row of its keys.
func (xlsxCodec) Encode(v any) ([]byte, error) {
	sheets, err := workbookSheets(XLSX, v)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if s.name != defaultSheetName {
				if err := f.SetSheetName(defaultSheetName, s.name); err != nil {
					return nil, err
				}
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}
		header, grid, err := sheetGrid(s.rows)
		if err != nil {
			return nil, err
		}
		if len(header) == 0 {
			continue
		}
		headerCells := make([]any, len(header))
		for c, h := range header {
			headerCells[c] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &headerCells); err != nil {
			return nil, err
		}
		for r, cells := range grid {
			axis, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(s.name, axis, &cells); err != nil {
				return nil, err
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
