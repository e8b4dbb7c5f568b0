package anyconv

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/extrame/xls"
)

const (
	spreadsheetNS     = "urn:schemas-microsoft-com:office:spreadsheet"
	spreadsheetProgID = `<?mso-application progid="Excel.Sheet"?>` + "\n"
	biffCharset       = "utf-8"
	ssTypeString      = "String"
	ssTypeNumber      = "Number"
	ssTypeBoolean     = "Boolean"
)

// oleSignature starts every legacy BIFF (.xls) file.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// xlsCodec writes Excel 2003 XML Spreadsheets (SpreadsheetML) and reads
// either those or legacy binary workbooks.
type xlsCodec struct{}

func (xlsCodec) Format() Format { return XLS }

func (xlsCodec) Decode(data []byte) (any, error) {
	if bytes.HasPrefix(data, oleSignature) {
		return decodeBIFF(data)
	}
	return decodeSpreadsheetML(data)
}

func (xlsCodec) Encode(v any) ([]byte, error) {
	sheets, err := workbookSheets(XLS, v)
	if err != nil {
		return nil, err
	}
	book := ssWorkbook{Xmlns: spreadsheetNS, XmlnsSS: spreadsheetNS}
	for _, s := range sheets {
		header, grid, err := sheetGrid(s.rows)
		if err != nil {
			return nil, err
		}
		ws := ssWorksheet{Name: s.name}
		if len(header) > 0 {
			cells := make([]any, len(header))
			for i, h := range header {
				cells[i] = h
			}
			ws.Table.Rows = append(ws.Table.Rows, ssRowOf(cells))
		}
		for _, cells := range grid {
			ws.Table.Rows = append(ws.Table.Rows, ssRowOf(cells))
		}
		book.Worksheets = append(book.Worksheets, ws)
	}
	out, err := xml.MarshalIndent(book, "", " ")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(spreadsheetProgID)
	buf.Write(out)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write-side SpreadsheetML. Attribute names carry the ss prefix literally.
type (
	ssWorkbook struct {
		XMLName    xml.Name      `xml:"Workbook"`
		Xmlns      string        `xml:"xmlns,attr"`
		XmlnsSS    string        `xml:"xmlns:ss,attr"`
		Worksheets []ssWorksheet `xml:"Worksheet"`
	}
	ssWorksheet struct {
		Name  string  `xml:"ss:Name,attr"`
		Table ssTable `xml:"Table"`
	}
	ssTable struct {
		Rows []ssRow `xml:"Row"`
	}
	ssRow struct {
		Cells []ssCell `xml:"Cell"`
	}
	ssCell struct {
		Index int    `xml:"ss:Index,attr,omitempty"`
		Data  ssData `xml:"Data"`
	}
	ssData struct {
		Type  string `xml:"ss:Type,attr"`
		Value string `xml:",chardata"`
	}
)

// ssRowOf skips nil cells and marks the next written cell with its 1-based
// column index.
func ssRowOf(cells []any) ssRow {
	var row ssRow
	skipped := false
	for i, v := range cells {
		if v == nil {
			skipped = true
			continue
		}
		cell := ssCell{Data: ssDataOf(v)}
		if skipped {
			cell.Index = i + 1
			skipped = false
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func ssDataOf(v any) ssData {
	switch x := v.(type) {
	case bool:
		if x {
			return ssData{Type: ssTypeBoolean, Value: "1"}
		}
		return ssData{Type: ssTypeBoolean, Value: "0"}
	case int64:
		return ssData{Type: ssTypeNumber, Value: strconv.FormatInt(x, 10)}
	case float64:
		return ssData{Type: ssTypeNumber, Value: strconv.FormatFloat(x, 'g', -1, 64)}
	default:
		s, _ := cellString(v)
		return ssData{Type: ssTypeString, Value: s}
	}
}

// Read-side SpreadsheetML. Untagged namespaces match any prefix.
type ssReadWorkbook struct {
	Worksheets []struct {
		Name string `xml:"Name,attr"`
		Rows []struct {
			Index int `xml:"Index,attr"`
			Cells []struct {
				Index int `xml:"Index,attr"`
				Data  struct {
					Type  string `xml:"Type,attr"`
					Value string `xml:",chardata"`
				} `xml:"Data"`
			} `xml:"Cell"`
		} `xml:"Table>Row"`
	} `xml:"Worksheet"`
}

func decodeSpreadsheetML(data []byte) (any, error) {
	var book ssReadWorkbook
	if err := xml.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	sheets := make([]sheet, 0, len(book.Worksheets))
	for _, ws := range book.Worksheets {
		var grid [][]any
		for _, row := range ws.Rows {
			if row.Index > len(grid)+1 {
				grid = append(grid, make([][]any, row.Index-len(grid)-1)...)
			}
			var cells []any
			for _, c := range row.Cells {
				if c.Index > len(cells)+1 {
					cells = append(cells, make([]any, c.Index-len(cells)-1)...)
				}
				cells = append(cells, ssCellValue(c.Data.Type, c.Data.Value))
			}
			grid = append(grid, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: gridRows(grid)})
	}
	return workbookValue(sheets), nil
}

func ssCellValue(typ, raw string) any {
	switch typ {
	case ssTypeBoolean:
		return raw == "1" || raw == "true"
	case ssTypeNumber:
		return sheetCell(raw, true)
	default:
		return sheetCell(raw, false)
	}
}

// decodeBIFF reads a legacy binary workbook. The reader only exposes
// formatted text, so numeric-looking cells are parsed back into numbers.
func decodeBIFF(data []byte) (any, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), biffCharset)
	if err != nil {
		return nil, err
	}
	sheets := make([]sheet, 0, wb.NumSheets())
	for i := range wb.NumSheets() {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		grid := make([][]any, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]any, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = sheetCell(row.Col(c), true)
			}
			grid = append(grid, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: gridRows(grid)})
	}
	return workbookValue(sheets), nil
}
