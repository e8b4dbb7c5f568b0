package anyconv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// markdownCodec renders GitHub-flavored Markdown tables. It is output only.
type markdownCodec struct{}

func (markdownCodec) Format() Format { return Markdown }

func (markdownCodec) Decode([]byte) (any, error) {
	return nil, fmt.Errorf("%w: %s is an output-only format", ErrUnsupported, Markdown)
}

// Encode requires an array of rows. Object rows use their keys as the header;
// for array rows the first row is the header.
func (markdownCodec) Encode(v any) ([]byte, error) {
	items, err := requireArray(Markdown, v)
	if err != nil {
		return nil, err
	}
	header, rows, err := tableRecords(Markdown, items)
	if err != nil {
		return nil, err
	}
	if header == nil && len(rows) > 0 {
		header, rows = rows[0], rows[1:]
	}
	if len(header) == 0 {
		return nil, nil
	}

	numCols := len(header)
	for _, row := range rows {
		numCols = max(numCols, len(row))
	}

	// Calculate column widths (minimum 3 for the separator row).
	widths := make([]int, numCols)
	for i := range widths {
		widths[i] = 3
	}
	measure := func(cells []string) {
		for i, cell := range cells {
			if w := runewidth.StringWidth(escapeMarkdownCell(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	var buf bytes.Buffer
	writeMarkdownRow(&buf, header, widths)
	sep := make([]string, numCols)
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintf(&buf, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range rows {
		writeMarkdownRow(&buf, row, widths)
	}
	return buf.Bytes(), nil
}

func writeMarkdownRow(buf *bytes.Buffer, cells []string, widths []int) {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = escapeMarkdownCell(cells[i])
		}
		if pad := width - runewidth.StringWidth(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		padded[i] = cell
	}
	fmt.Fprintf(buf, "| %s |\n", strings.Join(padded, " | "))
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func escapeMarkdownCell(s string) string {
	return markdownEscaper.Replace(s)
}
