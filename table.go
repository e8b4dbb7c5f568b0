package anyconv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var roundedBorder = borderChars{
	topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
	horizontal: "─", vertical: "│",
	topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
	cross: "┼",
}

var tableCellEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ")

// tableCodec draws rows as a box-bordered table for terminals. It is output
// only and accepts the same rows as [markdownCodec].
type tableCodec struct{}

func (tableCodec) Format() Format { return Table }

func (tableCodec) Decode([]byte) (any, error) {
	return nil, fmt.Errorf("%w: %s is an output-only format", ErrUnsupported, Table)
}

func (tableCodec) Encode(v any) ([]byte, error) {
	items, err := requireArray(Table, v)
	if err != nil {
		return nil, err
	}
	header, rows, err := tableRecords(Table, items)
	if err != nil {
		return nil, err
	}
	if header == nil && len(rows) > 0 {
		header, rows = rows[0], rows[1:]
	}
	if len(header) == 0 {
		return nil, nil
	}

	header = tableCells(header)
	numCols := len(header)
	for i, row := range rows {
		rows[i] = tableCells(row)
		numCols = max(numCols, len(row))
	}
	widths := make([]int, numCols)
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	bc := roundedBorder
	var buf bytes.Buffer
	drawHLine(&buf, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight)
	drawTableRow(&buf, header, widths, bc.vertical)
	drawHLine(&buf, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee)
	for _, row := range rows {
		drawTableRow(&buf, row, widths, bc.vertical)
	}
	drawHLine(&buf, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
	return buf.Bytes(), nil
}

func tableCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = tableCellEscaper.Replace(c)
	}
	return out
}

func drawHLine(buf *bytes.Buffer, widths []int, left, fill, mid, right string) {
	buf.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			buf.WriteString(mid)
		}
		buf.WriteString(strings.Repeat(fill, w+2))
	}
	buf.WriteString(right)
	buf.WriteByte('\n')
}

func drawTableRow(buf *bytes.Buffer, cells []string, widths []int, vertical string) {
	buf.WriteString(vertical)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		// Padding is computed from display width so wide runes stay aligned.
		fmt.Fprintf(buf, " %s%s %s", cell, strings.Repeat(" ", w-runewidth.StringWidth(cell)), vertical)
	}
	buf.WriteByte('\n')
}
